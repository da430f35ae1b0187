package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFileInsertsLoads(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	res := svc.IngestFile("j1041.grc", strings.NewReader(sampleExport))
	require.Empty(t, res.Error)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 0, res.Updated)

	var h models.Harvest
	require.NoError(t, db.First(&h, "load_num = ?", "L100").Error)
	assert.Equal(t, 1041, h.JobNumber)
	require.NotNil(t, h.GrossWeight)
	assert.Equal(t, 52000.0, *h.GrossWeight)
	assert.Equal(t, 2000.0, h.TareWeight)
	require.NotNil(t, h.MC)
	assert.Equal(t, 18.5, *h.MC)
	require.NotNil(t, h.WetBushels)
	assert.Equal(t, 892.86, *h.WetBushels) // 50000 / 56
	require.NotNil(t, h.DryBushels)
	assert.Equal(t, 861.16, *h.DryBushels) // shrunk from 18.5% to 15.5% base
	require.NotNil(t, h.Note)
	assert.Equal(t, "TruckID=T-12 | Destination=Bin-13", *h.Note)
	require.NotNil(t, h.HarvestDate)
	assert.Equal(t, time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC), h.HarvestDate.UTC())

	// moisture falls back to the Comment column on L101. Each lookup gets
	// its own destination struct; reusing one would carry the previous
	// primary key into the next query's conditions.
	var h101 models.Harvest
	require.NoError(t, db.First(&h101, "load_num = ?", "L101").Error)
	require.NotNil(t, h101.MC)
	assert.Equal(t, 16.2, *h101.MC)
	require.NotNil(t, h101.DryBushels)
	assert.Equal(t, 850.04, *h101.DryBushels)

	// L102 has no tare, no moisture, no destination
	var h102 models.Harvest
	require.NoError(t, db.First(&h102, "load_num = ?", "L102").Error)
	assert.Equal(t, 0.0, h102.TareWeight)
	assert.Nil(t, h102.MC)
	require.NotNil(t, h102.DryBushels)
	assert.Equal(t, 910.71, *h102.DryBushels) // no shrink without a moisture reading
	assert.Nil(t, h102.Note)
	var bin models.StorageLocation
	require.NoError(t, db.First(&bin, "id = ?", h102.StorLocID).Error)
	assert.Equal(t, "UNKNOWN", bin.BinCode)
}

func TestIngestFileIsIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	first := svc.IngestFile("j1041.grc", strings.NewReader(sampleExport))
	require.Empty(t, first.Error)
	assert.Equal(t, 3, first.Inserted)

	second := svc.IngestFile("j1041.grc", strings.NewReader(sampleExport))
	require.Empty(t, second.Error)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 3, second.Unchanged)

	var harvests, growers, crops int64
	db.Model(&models.Harvest{}).Count(&harvests)
	db.Model(&models.Grower{}).Count(&growers)
	db.Model(&models.Crop{}).Count(&crops)
	assert.EqualValues(t, 3, harvests)
	assert.EqualValues(t, 1, growers)
	assert.EqualValues(t, 1, crops)
}

func TestIngestFileUpdatesChangedLoads(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	first := svc.IngestFile("j1041.grc", strings.NewReader(sampleExport))
	require.Empty(t, first.Error)

	// corrected export: L100 reweighed
	corrected := strings.Replace(sampleExport, "L100,2024-10-03,52000", "L100,2024-10-03,53000", 1)
	res := svc.IngestFile("j1041.grc", strings.NewReader(corrected))
	require.Empty(t, res.Error)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Unchanged)

	var h models.Harvest
	require.NoError(t, db.First(&h, "load_num = ?", "L100").Error)
	require.NotNil(t, h.GrossWeight)
	assert.Equal(t, 53000.0, *h.GrossWeight)

	var count int64
	db.Model(&models.Harvest{}).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestIngestFileSkipsLoadsWithoutLoadNumber(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	// LoadNumber is not the first column here, so a blank one reaches the
	// engine instead of being dropped by the parser
	export := `JobNumber,1041
Grower,Baxter Farms
Farm,North
Field,Creek 80
Crop,Corn
Year,2024
,units
LoadDate,LoadNumber,Weight
2024-10-03,L100,52000
2024-10-03,,48000
`
	res := svc.IngestFile("j1041.grc", strings.NewReader(export))
	require.Empty(t, res.Error)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.SkippedLoads)
}

func TestIngestFileUnknownCropRollsBack(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	export := strings.Replace(sampleExport, "Crop,Corn", "Crop,Quinoa", 1)
	res := svc.IngestFile("quinoa.grc", strings.NewReader(export))
	require.NotEmpty(t, res.Error)
	assert.Contains(t, res.Error, "Quinoa")
	assert.Equal(t, 0, res.Inserted)

	// the file's dimension inserts rolled back with it
	var growers, harvests int64
	db.Model(&models.Grower{}).Count(&growers)
	db.Model(&models.Harvest{}).Count(&harvests)
	assert.EqualValues(t, 0, growers)
	assert.EqualValues(t, 0, harvests)
}

func TestIngestFileMissingMetadata(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	export := strings.Replace(sampleExport, "Grower,Baxter Farms\n", "", 1)
	res := svc.IngestFile("nogrower.grc", strings.NewReader(export))
	assert.Contains(t, res.Error, "missing Grower")

	var harvests int64
	db.Model(&models.Harvest{}).Count(&harvests)
	assert.EqualValues(t, 0, harvests)
}

func TestRunFolderProcessesBatchAndPersistsRun(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "j1041.grc"), []byte(sampleExport), 0o644))
	bad := strings.Replace(sampleExport, "Crop,Corn", "Crop,Quinoa", 1)
	bad = strings.Replace(bad, "JobNumber,1041", "JobNumber,1042", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "j1042.grc"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	report, err := svc.RunFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalFiles)
	assert.Equal(t, 1, report.FilesOK)
	assert.Equal(t, 1, report.FilesSkipped)
	assert.Equal(t, 3, report.Inserted)

	run, err := svc.GetRun(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 2, run.TotalFiles)
	assert.Equal(t, 3, run.Inserted)
	assert.NotNil(t, run.CompletedAt)
	assert.Contains(t, string(run.FileResults), "j1042.grc")

	// a failed file never blocks the rest of the batch
	var harvests int64
	db.Model(&models.Harvest{}).Count(&harvests)
	assert.EqualValues(t, 3, harvests)
}

func TestRunFolderMissingDirectory(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.DefaultIngestion(), testLogger())

	_, err := svc.RunFolder(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
