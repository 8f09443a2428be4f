package config

// Settings keys.
const (
	KeyStartupState  = "startup_state"
	KeyFailurePolicy = "failure_policy"
	KeyProbeEnabled  = "probe_enabled"
	KeyProbeTargets  = "probe_targets"
	KeyProbeInterval = "probe_interval"
	KeyProbeTimeout  = "probe_timeout"
	KeyProbeWorkers  = "probe_workers"
	KeyReferenceFile = "reference_file"

	// KeyLogLevel is read from the config file only; it has no settings row.
	KeyLogLevel = "log_level"
)

// Kind distinguishes how a setting is edited and validated.
type Kind int

const (
	KindText   Kind = iota // Free text.
	KindChoice             // One of Choices.
	KindNumber             // Integer within [Min, Max].
	KindList               // Comma-separated list.
)

// Definition describes a user-editable setting.
type Definition struct {
	Key         string
	Label       string
	Description string
	Kind        Kind
	Choices     []string // KindChoice only.
	Min, Max    int      // KindNumber only; Max 0 means unbounded.
}

// Definitions lists every setting in display order.
var Definitions = []Definition{
	{Key: KeyStartupState, Label: "Startup State", Description: "Status shown before the first probe", Kind: KindChoice, Choices: []string{"online", "unknown"}},
	{Key: KeyFailurePolicy, Label: "On Failure", Description: "What to show when the notifier is unavailable", Kind: KindChoice, Choices: []string{"propagate", "offline", "unknown"}},
	{Key: KeyProbeEnabled, Label: "Probing", Description: "Probe network reachability", Kind: KindChoice, Choices: []string{"true", "false"}},
	{Key: KeyProbeTargets, Label: "Targets", Description: "Comma-separated host[:port] list (port 53 if omitted)", Kind: KindList},
	{Key: KeyProbeInterval, Label: "Interval", Description: "Seconds between probes", Kind: KindNumber, Min: 1, Max: 3600},
	{Key: KeyProbeTimeout, Label: "Timeout", Description: "Probe dial timeout (ms)", Kind: KindNumber, Min: 50, Max: 60000},
	{Key: KeyProbeWorkers, Label: "Workers", Description: "Concurrent probe dials", Kind: KindNumber, Min: 1, Max: 64},
	{Key: KeyReferenceFile, Label: "Reference File", Description: "YAML file replacing the built-in steps and roles", Kind: KindText},
}

// Lookup returns the definition for key.
func Lookup(key string) (Definition, bool) {
	for _, def := range Definitions {
		if def.Key == key {
			return def, true
		}
	}
	return Definition{}, false
}

// Keys returns all setting keys in display order.
func Keys() []string {
	keys := make([]string, len(Definitions))
	for i, def := range Definitions {
		keys[i] = def.Key
	}
	return keys
}
