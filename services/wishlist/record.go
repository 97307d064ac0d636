package wishlist

import (
	"database/sql"

	"github.com/JuanchoGithub/game-suggest/services/wishlist/db"
)

// Record is one wishlist item with everything the pipeline derived for
// it. Optional fields are pointers, absence and zero carry different
// meanings: an item scored 0 is not an item with no score.
type Record struct {
	Title                   string   `csv:"title"`
	CurrentPrice            float64  `csv:"current_price"`
	Metascore               *int64   `csv:"metascore"`
	Openscore               *int64   `csv:"openscore"`
	SteamScore              *int64   `csv:"steam_score"`
	LastDiscount            *string  `csv:"last_discount"`
	AvgDaysBetweenDiscounts *float64 `csv:"avg_days_between_discounts"`
	DaysSinceLastDiscount   *int64   `csv:"days_since_last_discount"`
}

func recordFromRow(row db.Game) Record {
	return Record{
		Title:                   row.Title,
		CurrentPrice:            row.CurrentPrice,
		Metascore:               int64Ptr(row.Metascore),
		Openscore:               int64Ptr(row.Openscore),
		SteamScore:              int64Ptr(row.SteamScore),
		LastDiscount:            stringPtr(row.LastDiscount),
		AvgDaysBetweenDiscounts: float64Ptr(row.AvgDaysBetweenDiscounts),
		DaysSinceLastDiscount:   int64Ptr(row.DaysSinceLastDiscount),
	}
}

func (r Record) upsertParams() db.UpsertGameParams {
	return db.UpsertGameParams{
		Title:                   r.Title,
		CurrentPrice:            r.CurrentPrice,
		Metascore:               nullInt64(r.Metascore),
		Openscore:               nullInt64(r.Openscore),
		SteamScore:              nullInt64(r.SteamScore),
		LastDiscount:            nullString(r.LastDiscount),
		AvgDaysBetweenDiscounts: nullFloat64(r.AvgDaysBetweenDiscounts),
		DaysSinceLastDiscount:   nullInt64(r.DaysSinceLastDiscount),
	}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func float64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
