package main

import (
	"fmt"
	"os"

	"github.com/saeidalz13/battleship-p2p/api"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	"gopkg.in/yaml.v2"
)

// fleetFile is a prepared layout, one entry per ship in placement order:
//
//	ships:
//	  - {x: 0, y: 0, horizontal: false}
//	  - {x: 2, y: 0, horizontal: false}
//	  - {x: 4, y: 0, horizontal: true}
type fleetFile struct {
	Ships []fleetEntry `yaml:"ships"`
}

type fleetEntry struct {
	X          int  `yaml:"x"`
	Y          int  `yaml:"y"`
	Horizontal bool `yaml:"horizontal"`
}

func parseFleetFile(data []byte) ([]fleetEntry, error) {
	var f fleetFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	if len(f.Ships) != 3 {
		return nil, fmt.Errorf("expected 3 ships, got %d", len(f.Ships))
	}
	for _, s := range f.Ships {
		if !mb.InBounds(s.X, s.Y) {
			return nil, fmt.Errorf("ship origin out of bounds: (%d,%d)", s.X, s.Y)
		}
	}
	return f.Ships, nil
}

func placeFleetFromFile(peer *api.Peer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ships, err := parseFleetFile(data)
	if err != nil {
		return err
	}
	return placeFleet(peer, ships)
}

func placeFleet(peer *api.Peer, ships []fleetEntry) error {
	for i, s := range ships {
		if peer.Snapshot().Horizontal != s.Horizontal {
			peer.RotateShip()
		}
		if !peer.PlaceShip(s.X, s.Y) {
			return fmt.Errorf("ship %d does not fit at (%d,%d)", i+1, s.X, s.Y)
		}
	}
	return nil
}
