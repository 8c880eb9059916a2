package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CreatorsTable is the creators collection, shared by every store backend.
const CreatorsTable = "creators"

// Column names as they exist in the hosted creators table.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnURL         = "url"
	ColumnDescription = "description"
	ColumnImageURL    = "imageURL"
)

// Field bounds, in characters.
const (
	NameMaxLength        = 50
	URLMaxLength         = 2048
	DescriptionMaxLength = 500
	ImageURLMaxLength    = 2048
)

// Creator représente un créateur du catalogue.
type Creator struct {
	ID          string `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name        string `gorm:"column:name;size:50;not null" json:"name"`
	URL         string `gorm:"column:url;size:2048;not null;index" json:"url"`
	Description string `gorm:"column:description;size:500;not null" json:"description"`
	ImageURL    string `gorm:"column:imageURL;size:2048;not null;default:''" json:"imageURL"`
}

// TableName pins the gorm table to the hosted collection name.
func (Creator) TableName() string {
	return CreatorsTable
}

// Fields returns the four editable columns. The id is left out, the store assigns it.
func (c Creator) Fields() map[string]interface{} {
	return map[string]interface{}{
		ColumnName:        c.Name,
		ColumnURL:         c.URL,
		ColumnDescription: c.Description,
		ColumnImageURL:    c.ImageURL,
	}
}

// CreatorFromRecord builds a Creator from a row returned by a record store.
func CreatorFromRecord(row map[string]interface{}) Creator {
	return Creator{
		ID:          asString(row[ColumnID]),
		Name:        asString(row[ColumnName]),
		URL:         asString(row[ColumnURL]),
		Description: asString(row[ColumnDescription]),
		ImageURL:    asString(row[ColumnImageURL]),
	}
}

// asString normalises the value types the different drivers hand back.
// Ids may come back as numbers or raw uuids depending on the backend.
func asString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	case json.Number:
		return value.String()
	case [16]byte:
		return uuid.UUID(value).String()
	case pgtype.UUID:
		if !value.Valid {
			return ""
		}
		return uuid.UUID(value.Bytes).String()
	case int64:
		return strconv.FormatInt(value, 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
