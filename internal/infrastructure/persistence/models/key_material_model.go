package models

import (
	"time"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
)

// KeyMaterialModel is the GORM database model for registered key material.
// The material itself is stored in its serialized form; the family and
// class columns exist only for operator queries.
type KeyMaterialModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	Family          string    `gorm:"type:varchar(20);index"`
	Class           string    `gorm:"type:varchar(20)"`
	Material        []byte    `gorm:"not null"`
	DateTimeCreated time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (KeyMaterialModel) TableName() string {
	return "key_materials"
}

// ToDomain deserializes the stored material.
func (m *KeyMaterialModel) ToDomain() (*keys.KeyMaterial, error) {
	return keys.UnmarshalKeyMaterial(m.Material)
}

// FromDomain serializes key material into the model.
func (m *KeyMaterialModel) FromDomain(id string, material *keys.KeyMaterial) error {
	data, err := material.Marshal()
	if err != nil {
		return err
	}
	m.ID = id
	m.Family = material.Family
	m.Class = string(material.Class)
	m.Material = data
	m.DateTimeCreated = time.Now().UTC()
	return nil
}
