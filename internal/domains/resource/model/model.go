package model

import "fieldbook/shared/model"

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID     = "id"
	FieldName   = "name"
	FieldKind   = "kind"
	FieldActive = "active"
)

const (
	KindField = "field"
	KindRoom  = "room"
)

// Resource is a field or room. Resources are managed outside this service and only read here.
type Resource struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Kind   string `db:"kind"`
	Active bool   `db:"active"`
	model.Metadata
}
