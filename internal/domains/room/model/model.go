package model

import (
	"unibook/shared/model"

	"github.com/lib/pq"
)

const (
	TableName         = "rooms"
	EntityName        = "room"
	BuildingTableName = "buildings"

	FieldID          = "id"
	FieldName        = "name"
	FieldBuildingID  = "building_id"
	FieldFloorNumber = "floor_number"
	FieldCapacity    = "capacity"
	FieldActive      = "active"
	FieldFeatures    = "features"
)

type Room struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	BuildingID   string         `db:"building_id"`
	BuildingName string         `db:"building_name" table:"buildings" column:"name"`
	FloorNumber  int            `db:"floor_number"`
	Capacity     int            `db:"capacity"`
	Active       bool           `db:"active"`
	Features     pq.StringArray `db:"features"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN buildings ON buildings.id = rooms.building_id"
}

// IsBookable reports whether the room exists and accepts new reservations.
func (r Room) IsBookable() bool {
	return r.ID != "" && r.Active
}
