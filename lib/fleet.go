package lib

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Unicorn is one dispatchable fleet unit. The fleet is fixed at process
// start and read-only afterwards, so concurrent handler invocations can
// read it without locking.
type Unicorn struct {
	Name   string `json:"Name" yaml:"name"`
	Color  string `json:"Color" yaml:"color"`
	Gender string `json:"Gender" yaml:"gender"`
}

const FleetSize = 3

var fleet = [FleetSize]Unicorn{
	{Name: "Bucephalus", Color: "Golden", Gender: "Male"},
	{Name: "Shadowfax", Color: "White", Gender: "Male"},
	{Name: "Rocinante", Color: "Yellow", Gender: "Female"},
}

// Fleet returns a copy of the configured fleet.
func Fleet() [FleetSize]Unicorn {
	return fleet
}

// PickUnicorn draws one fleet unit uniformly at random. Pickup location
// never influences the draw.
func PickUnicorn() Unicorn {
	return fleet[rand.Intn(FleetSize)]
}

// FleetLoad replaces the default fleet from a yaml file. Call it before
// serving any requests, never after. The file must define exactly
// FleetSize units:
//
//	- name: Bucephalus
//	  color: Golden
//	  gender: Male
func FleetLoad(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	var units []Unicorn
	err = yaml.Unmarshal(data, &units)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	if len(units) != FleetSize {
		err := fmt.Errorf("fleet file must define exactly %d units, got %d: %s", FleetSize, len(units), path)
		Logger.Println("error:", err)
		return err
	}
	var names []string
	for i, u := range units {
		if u.Name == "" {
			err := fmt.Errorf("fleet unit %d has no name: %s", i, path)
			Logger.Println("error:", err)
			return err
		}
		if Contains(names, u.Name) {
			err := fmt.Errorf("fleet unit name %s appears twice: %s", u.Name, path)
			Logger.Println("error:", err)
			return err
		}
		names = append(names, u.Name)
	}
	copy(fleet[:], units)
	return nil
}
