package vector

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parkscout/parkscout/domain/search"
)

// Float64Slice stores a []float64 as JSON in a database column.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// embeddingRow is the database shape of an embedding record. One row per
// entity id: regeneration overwrites, never appends.
type embeddingRow struct {
	ID            string       `gorm:"column:id;primaryKey"`
	Model         string       `gorm:"column:model;index"`
	Vector        Float64Slice `gorm:"column:vector;type:json"`
	TextHash      string       `gorm:"column:text_hash"`
	EntityType    string       `gorm:"column:entity_type;index"`
	DestinationID string       `gorm:"column:destination_id;index"`
	Name          string       `gorm:"column:name"`
	CreatedAt     time.Time    `gorm:"column:created_at"`
}

// TableName returns the embeddings table name.
func (embeddingRow) TableName() string { return "entity_embeddings" }

func rowFromEmbedding(e search.Embedding) embeddingRow {
	return embeddingRow{
		ID:            e.ID(),
		Model:         e.Model(),
		Vector:        Float64Slice(e.Vector()),
		TextHash:      e.TextHash(),
		EntityType:    e.EntityTypeTag(),
		DestinationID: e.DestinationID(),
		Name:          e.EntityName(),
		CreatedAt:     e.CreatedAt(),
	}
}

func (r embeddingRow) toEmbedding() search.Embedding {
	return search.NewEmbedding(r.ID, r.Model, []float64(r.Vector), r.TextHash).
		WithMetadata(r.EntityType, r.DestinationID, r.Name).
		WithCreatedAt(r.CreatedAt)
}
