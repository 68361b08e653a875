package operators

// Catalog enumerates the exported operator constructors in this package.
// Used by cmd/chainflow's list-operators subcommand and by tests asserting
// no two operators collide on exported name.
func Catalog() []string {
	return []string{
		"OneShotHalt",
		"OneShotContinue",
		"LogMessage",
		"SendSystemEventOp",
		"SendNamedEventOp",
		"EnableChains",
		"DisableChains",
		"EnableDisableChains",
		"WaitTime",
		"WaitForEvent",
		"Verify",
		"Watchdog",
		"JoinOR",
		"JoinAND",
		"JoinN",
		"ExceptionHandler",
		"EventFilter",
	}
}
