package ingestion

import (
	"errors"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/models"
	"grain-management-backend/internal/normalize"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Resolver performs lookup-or-insert over the dimension tables by natural
// key. Every natural key carries a unique index, and inserts go through
// ON CONFLICT DO NOTHING followed by a re-read, so two runs racing on the
// same key converge on one row instead of duplicating it.
type Resolver struct {
	db  *gorm.DB
	cfg config.Ingestion
}

func NewResolver(db *gorm.DB, cfg config.Ingestion) *Resolver {
	return &Resolver{db: db, cfg: cfg}
}

func (r *Resolver) Grower(name string) (uuid.UUID, error) {
	name = normalize.CleanText(name)

	var g models.Grower
	err := r.db.Where("grower_name = ?", name).First(&g).Error
	if err == nil {
		return g.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, storeError("lookup grower", err)
	}

	g = models.Grower{ID: uuid.New(), GrowerName: name}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&g)
	if res.Error != nil {
		return uuid.Nil, storeError("insert grower", res.Error)
	}
	if res.RowsAffected == 0 {
		// lost the insert race; the row exists now. Re-read into a fresh
		// struct, since gorm folds a populated primary key into the WHERE.
		var winner models.Grower
		if err := r.db.Where("grower_name = ?", name).First(&winner).Error; err != nil {
			return uuid.Nil, storeError("re-read grower", err)
		}
		return winner.ID, nil
	}
	return g.ID, nil
}

func (r *Resolver) Department(growerID uuid.UUID, name string) (uuid.UUID, error) {
	name = normalize.CleanText(name)

	var d models.Department
	err := r.db.Where("grower_id = ? AND dpt_name = ?", growerID, name).First(&d).Error
	if err == nil {
		return d.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, storeError("lookup department", err)
	}

	d = models.Department{
		ID:       uuid.New(),
		DptName:  name,
		Contact:  r.cfg.DefaultContact,
		Manager:  r.cfg.DefaultManager,
		GrowerID: growerID,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&d)
	if res.Error != nil {
		return uuid.Nil, storeError("insert department", res.Error)
	}
	if res.RowsAffected == 0 {
		var winner models.Department
		if err := r.db.Where("grower_id = ? AND dpt_name = ?", growerID, name).First(&winner).Error; err != nil {
			return uuid.Nil, storeError("re-read department", err)
		}
		return winner.ID, nil
	}
	return d.ID, nil
}

func (r *Resolver) Field(dptID uuid.UUID, name string, cropYear string) (uuid.UUID, error) {
	name = normalize.CleanText(name)
	year := normalize.ParseInteger(cropYear)
	if year == nil {
		return uuid.Nil, validationErrorf("crop year missing or non-numeric: %q", cropYear)
	}

	var f models.Field
	err := r.db.Where("dpt_id = ? AND field_name = ? AND crop_year = ?", dptID, name, *year).First(&f).Error
	if err == nil {
		return f.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, storeError("lookup field", err)
	}

	f = models.Field{ID: uuid.New(), FieldName: name, CropYear: *year, DptID: dptID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&f)
	if res.Error != nil {
		return uuid.Nil, storeError("insert field", res.Error)
	}
	if res.RowsAffected == 0 {
		var winner models.Field
		if err := r.db.Where("dpt_id = ? AND field_name = ? AND crop_year = ?", dptID, name, *year).First(&winner).Error; err != nil {
			return uuid.Nil, storeError("re-read field", err)
		}
		return winner.ID, nil
	}
	return f.ID, nil
}

// Crop prefers an existing Crop row; an unknown name falls back to the
// configured reference specs, and a name missing there rejects the file.
func (r *Resolver) Crop(name string) (*models.Crop, error) {
	name = normalize.CleanText(name)

	var c models.Crop
	err := r.db.Where("crop_name = ?", name).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("lookup crop", err)
	}

	if !r.cfg.AllowCropInsert {
		return nil, validationErrorf("crop %q not found and crop insert is disabled", name)
	}
	spec, ok := r.cfg.CropSpecs[name]
	if !ok {
		return nil, validationErrorf("crop %q not in reference specs", name)
	}

	c = models.Crop{
		ID:              uuid.New(),
		CropCode:        spec.Code,
		CropName:        name,
		WeightPerBushel: spec.WeightPerBushel,
		BaseMC:          spec.BaseMC,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c)
	if res.Error != nil {
		return nil, storeError("insert crop", res.Error)
	}
	if res.RowsAffected == 0 {
		var winner models.Crop
		if err := r.db.Where("crop_name = ?", name).First(&winner).Error; err != nil {
			return nil, storeError("re-read crop", err)
		}
		return &winner, nil
	}
	return &c, nil
}

func (r *Resolver) Cart(code string) (uuid.UUID, error) {
	code = normalize.CleanText(code)
	if code == "" {
		code = r.cfg.DefaultCartCode
	}

	var cart models.Cart
	err := r.db.Where("cart_code = ?", code).First(&cart).Error
	if err == nil {
		return cart.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, storeError("lookup cart", err)
	}

	cart = models.Cart{ID: uuid.New(), CartCode: code, CartName: "Unknown Cart"}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cart)
	if res.Error != nil {
		return uuid.Nil, storeError("insert cart", res.Error)
	}
	if res.RowsAffected == 0 {
		var winner models.Cart
		if err := r.db.Where("cart_code = ?", code).First(&winner).Error; err != nil {
			return uuid.Nil, storeError("re-read cart", err)
		}
		return winner.ID, nil
	}
	return cart.ID, nil
}

// StorageLocation resolves a raw destination in three stages: normalized code
// match, exact display-name match, then insert. Auto-created bins get zero
// capacity since the export carries no capacity figure.
func (r *Resolver) StorageLocation(raw string) (uuid.UUID, error) {
	display := normalize.CleanText(raw)
	if display == "" {
		display = r.cfg.DefaultBinCode
	}
	code := normalize.NormalizeCode(display)
	if code == "" {
		code = normalize.NormalizeCode(r.cfg.DefaultBinCode)
		display = r.cfg.DefaultBinCode
	}

	// codes compare in normalized form on both sides, so an
	// operator-entered "Bin-13" still matches "bin 13"
	var existing []models.StorageLocation
	if err := r.db.Find(&existing).Error; err != nil {
		return uuid.Nil, storeError("list storage locations", err)
	}
	for i := range existing {
		if normalize.NormalizeCode(existing[i].BinCode) == code {
			return existing[i].ID, nil
		}
	}

	var loc models.StorageLocation
	err := r.db.Where("bin_name = ?", display).First(&loc).Error
	if err == nil {
		return loc.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, storeError("lookup storage location by name", err)
	}

	loc = models.StorageLocation{ID: uuid.New(), BinCode: code, BinName: display, BinCapacity: 0}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&loc)
	if res.Error != nil {
		return uuid.Nil, storeError("insert storage location", res.Error)
	}
	if res.RowsAffected == 0 {
		var winner models.StorageLocation
		if err := r.db.Where("bin_code = ?", code).First(&winner).Error; err != nil {
			return uuid.Nil, storeError("re-read storage location", err)
		}
		return winner.ID, nil
	}
	return loc.ID, nil
}
