package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// The six directions a room can open onto.
const (
	DirectionNorth = "north"
	DirectionSouth = "south"
	DirectionEast  = "east"
	DirectionWest  = "west"
	DirectionUp    = "up"
	DirectionDown  = "down"
)

var Directions = []string{
	DirectionNorth,
	DirectionSouth,
	DirectionEast,
	DirectionWest,
	DirectionUp,
	DirectionDown,
}

// ReverseDirection maps each direction to its opposite, for arrival
// notifications in the room being entered.
var ReverseDirection = map[string]string{
	DirectionNorth: DirectionSouth,
	DirectionSouth: DirectionNorth,
	DirectionEast:  DirectionWest,
	DirectionWest:  DirectionEast,
	DirectionUp:    DirectionDown,
	DirectionDown:  DirectionUp,
}

// Terrain classes and their stamina cost per step.
const (
	TerrainRoad     = "road"
	TerrainCity     = "city"
	TerrainIndoor   = "indoor"
	TerrainField    = "field"
	TerrainTrail    = "trail"
	TerrainForest   = "forest"
	TerrainDesert   = "desert"
	TerrainMountain = "mountain"
	TerrainWater    = "water"
)

var terrainCost = map[string]int{
	TerrainRoad:     1,
	TerrainCity:     1,
	TerrainIndoor:   1,
	TerrainField:    2,
	TerrainTrail:    2,
	TerrainForest:   3,
	TerrainDesert:   3,
	TerrainWater:    3,
	TerrainMountain: 4,
}

const defaultMoveCost = 1

// Room is a location in a world with up to six directional exits.
type Room struct {
	RoomName    string `json:"name"`
	Description string `json:"description,omitempty"`
	World       string `json:"world"`
	Zone        string `json:"zone,omitempty"`
	Terrain     string `json:"terrain,omitempty"`
	Landmark    bool   `json:"landmark,omitempty"`

	// Exits maps a direction to the id of the destination room. A missing
	// key means no exit that way.
	Exits map[string]string `json:"exits,omitempty"`

	// Grid coordinates inside the zone, used by the minimap.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.RoomName == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if r.World == "" {
		el.Add(fmt.Errorf("world is required"))
	}
	if r.Terrain != "" {
		if _, ok := terrainCost[r.Terrain]; !ok {
			el.Add(fmt.Errorf("unknown terrain %q", r.Terrain))
		}
	}
	for dir := range r.Exits {
		if ReverseDirection[dir] == "" {
			el.Add(fmt.Errorf("unknown exit direction %q", dir))
		}
	}

	return el.Err()
}

// Exit returns the destination room id for direction, or "" when the room
// has no exit that way.
func (r *Room) Exit(direction string) string {
	return r.Exits[direction]
}

// MoveCost returns the stamina cost of stepping into this room.
func (r *Room) MoveCost() int {
	if c, ok := terrainCost[r.Terrain]; ok {
		return c
	}
	return defaultMoveCost
}
