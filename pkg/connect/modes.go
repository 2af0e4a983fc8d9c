package connect

// HeatingMode is the operating mode of the heat pump water heater as encoded
// by the set_heat_mode_* datapoint endpoints.
type HeatingMode int

const (
	HeatingModeHybrid     HeatingMode = 0
	HeatingModeElectric   HeatingMode = 1
	HeatingModeHeatPump   HeatingMode = 2
	HeatingModeHybridPlus HeatingMode = 3
	HeatingModeVacation   HeatingMode = 4
)

// Valid reports whether m is one of the known heating modes.
func (m HeatingMode) Valid() bool {
	switch m {
	case HeatingModeHybrid, HeatingModeElectric, HeatingModeHeatPump,
		HeatingModeHybridPlus, HeatingModeVacation:
		return true
	}
	return false
}

func (m HeatingMode) String() string {
	switch m {
	case HeatingModeHybrid:
		return "hybrid"
	case HeatingModeElectric:
		return "electric"
	case HeatingModeHeatPump:
		return "heat-pump"
	case HeatingModeHybridPlus:
		return "hybrid-plus"
	case HeatingModeVacation:
		return "vacation"
	}
	return "unknown"
}

// AeroTherm models that do not offer Hybrid Plus, per
// https://forthepro.bradfordwhite.com/our-products/usa-residential-heat-pump/aerotherm-series-heat-pump/
// Maintained by hand against the vendor documentation.
var modelsWithoutHybridPlus = map[string]struct{}{
	"RE2H50S10-1NCWT": {},
	"RE2H65T10-1NCWT": {},
	"RE2H80T10-1NCWT": {},
}

// SupportedHeatingModes returns the heating modes the given appliance model
// supports. Unrecognized models get every known mode.
func SupportedHeatingModes(model string) []HeatingMode {
	modes := []HeatingMode{
		HeatingModeElectric,
		HeatingModeHeatPump,
		HeatingModeVacation,
		HeatingModeHybrid,
	}
	if _, ok := modelsWithoutHybridPlus[model]; ok {
		return modes
	}
	return append(modes, HeatingModeHybridPlus)
}
