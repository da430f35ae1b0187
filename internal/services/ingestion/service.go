package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/models"
	"grain-management-backend/internal/normalize"
	"grain-management-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service is the ingestion pipeline: parse an equipment export, resolve its
// dimensions, compute bushels, and upsert harvest loads keyed by
// (job number, load number). Each file runs in its own transaction; a failure
// rolls that file back and the batch moves on.
type Service struct {
	db  *gorm.DB
	cfg config.Ingestion
	log *logrus.Logger
}

func NewService(db *gorm.DB, cfg config.Ingestion, logger *logrus.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: logger}
}

// FileResult is the per-file outcome reported to the operator.
type FileResult struct {
	File         string `json:"file"`
	Inserted     int    `json:"inserted"`
	Updated      int    `json:"updated"`
	Unchanged    int    `json:"unchanged"`
	SkippedLoads int    `json:"skipped_loads"`
	Error        string `json:"error,omitempty"`
}

// RunReport aggregates one batch run over a folder of export files.
type RunReport struct {
	RunID        uuid.UUID    `json:"run_id"`
	Folder       string       `json:"folder"`
	TotalFiles   int          `json:"total_files"`
	FilesOK      int          `json:"files_ok"`
	FilesSkipped int          `json:"files_skipped"`
	Inserted     int          `json:"inserted"`
	Updated      int          `json:"updated"`
	Files        []FileResult `json:"files"`
}

// RunFolder ingests every *.grc file under folder (cfg.Folder when empty) and
// persists the run report.
func (s *Service) RunFolder(folder string) (*RunReport, error) {
	if strings.TrimSpace(folder) == "" {
		folder = s.cfg.Folder
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		config.LogError(s.log, "ingestion", "RunFolder", "read folder "+folder, err)
		return nil, storeError("read ingestion folder", err)
	}

	run := &models.IngestionRun{
		ID:        uuid.New(),
		Folder:    folder,
		Status:    "processing",
		StartedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(run).Error; err != nil {
		config.LogError(s.log, "ingestion", "RunFolder", "create run record", err)
		return nil, storeError("create ingestion run", err)
	}

	report := &RunReport{RunID: run.ID, Folder: folder, Files: []FileResult{}}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".grc") {
			continue
		}
		report.TotalFiles++

		f, err := os.Open(filepath.Join(folder, entry.Name()))
		if err != nil {
			report.Files = append(report.Files, FileResult{File: entry.Name(), Error: err.Error()})
			report.FilesSkipped++
			continue
		}
		result := s.IngestFile(entry.Name(), f)
		f.Close()

		report.Files = append(report.Files, result)
		if result.Error != "" {
			report.FilesSkipped++
		} else {
			report.FilesOK++
			report.Inserted += result.Inserted
			report.Updated += result.Updated
		}
	}

	resultsJSON, _ := json.Marshal(report.Files)
	now := time.Now()
	run.TotalFiles = report.TotalFiles
	run.FilesOK = report.FilesOK
	run.FilesSkipped = report.FilesSkipped
	run.Inserted = report.Inserted
	run.Updated = report.Updated
	run.Status = "completed"
	run.FileResults = resultsJSON
	run.CompletedAt = &now
	if err := s.db.Save(run).Error; err != nil {
		config.LogError(s.log, "ingestion", "RunFolder", "save run record", err)
		return nil, storeError("save ingestion run", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"files":    report.TotalFiles,
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"skipped":  report.FilesSkipped,
	}).Info("ingestion run completed")

	return report, nil
}

// IngestFile processes one export inside a single transaction. Validation
// failures and store failures land in FileResult.Error; the caller's batch is
// unaffected.
func (s *Service) IngestFile(name string, rdr io.Reader) FileResult {
	result := FileResult{File: name}

	data, err := ParseLoadFile(rdr)
	if err != nil {
		result.Error = err.Error()
		s.log.WithField("file", name).Warn("skipped: " + result.Error)
		return result
	}
	meta, err := ExtractMetadata(data.Meta)
	if err != nil {
		result.Error = err.Error()
		s.log.WithField("file", name).Warn("skipped: " + result.Error)
		return result
	}

	var inserted, updated, unchanged, skipped int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		resolver := NewResolver(tx, s.cfg)

		growerID, err := resolver.Grower(meta.Grower)
		if err != nil {
			return err
		}
		dptID, err := resolver.Department(growerID, meta.Farm)
		if err != nil {
			return err
		}
		fieldID, err := resolver.Field(dptID, meta.Field, meta.Year)
		if err != nil {
			return err
		}
		crop, err := resolver.Crop(meta.Crop)
		if err != nil {
			return err
		}

		for _, load := range data.Loads {
			loadNum := normalize.CleanText(load["LoadNumber"])
			if loadNum == "" {
				skipped++
				continue
			}

			outcome, err := s.upsertLoad(tx, resolver, meta, crop, dptID, fieldID, loadNum, load)
			if err != nil {
				return err
			}
			switch outcome {
			case "inserted":
				inserted++
			case "updated":
				updated++
			default:
				unchanged++
			}
		}
		return nil
	})
	if err != nil {
		result.Error = err.Error()
		config.LogError(s.log, "ingestion", "IngestFile", "rolled back "+name, err)
		return result
	}

	result.Inserted = inserted
	result.Updated = updated
	result.Unchanged = unchanged
	result.SkippedLoads = skipped
	return result
}

func (s *Service) upsertLoad(
	tx *gorm.DB,
	resolver *Resolver,
	meta *Metadata,
	crop *models.Crop,
	dptID, fieldID uuid.UUID,
	loadNum string,
	load map[string]string,
) (string, error) {
	truck := normalize.CleanText(load["TruckID"])
	dest := normalize.CleanText(load["Destination"])

	cartID, err := resolver.Cart(truck)
	if err != nil {
		return "", err
	}
	storLocID, err := resolver.StorageLocation(dest)
	if err != nil {
		return "", err
	}

	gross := normalize.ParseDecimal(load["Weight"])
	tare := 0.0
	if t := normalize.ParseDecimal(load["Tare"]); t != nil {
		tare = *t
	}
	var net *float64
	if gross != nil {
		n := *gross - tare
		net = &n
	}

	var mc *float64
	for _, field := range s.cfg.MoistureFields {
		if mc = normalize.ParseDecimal(load[field]); mc != nil {
			break
		}
	}

	wpb := crop.WeightPerBushel
	baseMC := crop.BaseMC
	wetBu := WetBushels(net, &wpb)
	dryBu := DryBushels(net, mc, &baseMC, &wpb)

	var noteParts []string
	if truck != "" {
		noteParts = append(noteParts, "TruckID="+truck)
	}
	if dest != "" {
		noteParts = append(noteParts, "Destination="+dest)
	}
	var note *string
	if len(noteParts) > 0 {
		n := strings.Join(noteParts, " | ")
		note = &n
	}

	next := models.Harvest{
		ID:          uuid.New(),
		JobNumber:   meta.JobNumber,
		LoadNum:     loadNum,
		HarvestDate: normalize.ParseDate(load["LoadDate"]),
		MC:          mc,
		GrossWeight: gross,
		TareWeight:  tare,
		WetBushels:  wetBu,
		DryBushels:  dryBu,
		Note:        note,
		CartID:      cartID,
		FieldID:     fieldID,
		CropID:      crop.ID,
		DptID:       dptID,
		StorLocID:   storLocID,
	}

	// the repository binds to the file's transaction so the lookup sees
	// rows written earlier in the same run
	existing, err := repository.NewHarvestRepository(tx).FindByJobAndLoad(meta.JobNumber, loadNum)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", storeError("lookup harvest", err)
		}
		if err := tx.Create(&next).Error; err != nil {
			return "", storeError("insert harvest", err)
		}
		return "inserted", nil
	}

	if harvestUnchanged(existing, &next) {
		return "unchanged", nil
	}

	updates := map[string]interface{}{
		"harvest_date": next.HarvestDate,
		"mc":           next.MC,
		"gross_weight": next.GrossWeight,
		"tare_weight":  next.TareWeight,
		"wet_bushels":  next.WetBushels,
		"dry_bushels":  next.DryBushels,
		"note":         next.Note,
		"cart_id":      next.CartID,
		"field_id":     next.FieldID,
		"crop_id":      next.CropID,
		"dpt_id":       next.DptID,
		"stor_loc_id":  next.StorLocID,
	}
	if err := tx.Model(&models.Harvest{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return "", storeError("update harvest", err)
	}
	return "updated", nil
}

// harvestUnchanged compares every field the importer derives; a re-run over
// an unchanged file must not touch the row.
func harvestUnchanged(a, b *models.Harvest) bool {
	return timePtrEq(a.HarvestDate, b.HarvestDate) &&
		floatPtrEq(a.MC, b.MC) &&
		floatPtrEq(a.GrossWeight, b.GrossWeight) &&
		a.TareWeight == b.TareWeight &&
		floatPtrEq(a.WetBushels, b.WetBushels) &&
		floatPtrEq(a.DryBushels, b.DryBushels) &&
		strPtrEq(a.Note, b.Note) &&
		a.CartID == b.CartID &&
		a.FieldID == b.FieldID &&
		a.CropID == b.CropID &&
		a.DptID == b.DptID &&
		a.StorLocID == b.StorLocID
}

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func timePtrEq(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// GetRun returns a past ingestion run with its per-file results.
func (s *Service) GetRun(id uuid.UUID) (*models.IngestionRun, error) {
	var run models.IngestionRun
	if err := s.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
