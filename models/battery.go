package models

import (
	"strconv"
	"strings"
)

// BatterySpec is the static datasheet shown on the batteries view.
type BatterySpec struct {
	Manufacturer string
	Architecture string
	Capacity     string
	Cooling      string
	Cycles       string
	Warranty     string
}

// MaxChargingPower is the same for every supported pack.
const MaxChargingPower = "150 kW (DC Fast)"

var batterySpecs = map[string]BatterySpec{
	BatteryLiIonNMC: {
		Manufacturer: "Panasonic / LG Chem",
		Architecture: "400V System, 96s2p",
		Capacity:     "64.0 kWh",
		Cooling:      "Active Liquid Cooling (Glycol)",
		Cycles:       "~1500 Cycles @ 80% SOH",
		Warranty:     "8 Years / 160,000 km",
	},
	BatteryLFP: {
		Manufacturer: "CATL / BYD",
		Architecture: "400V System, 106s2p",
		Capacity:     "60.0 kWh",
		Cooling:      "Liquid Cooling (Plate)",
		Cycles:       "~3000 Cycles @ 80% SOH",
		Warranty:     "10 Years / 200,000 km",
	},
	BatteryNCMType1: {
		Manufacturer: "Experimental / R&D",
		Architecture: "800V High Voltage",
		Capacity:     "75.0 kWh",
		Cooling:      "Immersion Cooling",
		Cycles:       "~1200 Cycles @ 80% SOH",
		Warranty:     "Research Prototype",
	},
}

// SpecFor returns the datasheet for a chemistry, falling back to Li-ion (NMC)
// for unknown or empty battery types.
func SpecFor(batteryType string) BatterySpec {
	if spec, ok := batterySpecs[batteryType]; ok {
		return spec
	}
	return batterySpecs[DefaultChemistry]
}

// CapacityKWh parses the leading number of the rated capacity ("64.0 kWh" -> 64).
func (s BatterySpec) CapacityKWh() float64 {
	fields := strings.Fields(s.Capacity)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return v
}

// EnergyThroughputKWh estimates the lifetime discharged energy from the
// predicted charging cycles and the pack's rated capacity.
func EnergyThroughputKWh(result *PredictionResult, spec BatterySpec) (float64, bool) {
	if result == nil {
		return 0, false
	}
	return result.LatentFeatures.PredChargingCycles * spec.CapacityKWh(), true
}
