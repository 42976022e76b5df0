package formatter

// Resolve merges the configuration layers of one run. Each field is taken
// from the highest layer that sets it: invocation flags over the project
// document over defaults. project may be nil. The invocation's constraints
// are checked first and a violation aborts the merge.
func Resolve(defaults Config, project *PartialConfig, inv Invocation) (Config, error) {
	if err := inv.Validate(); err != nil {
		return Config{}, err
	}

	cfg := defaults
	if project != nil {
		project.applyTo(&cfg)
	}
	inv.Partial().applyTo(&cfg)

	cfg.InPlace = inv.InPlace
	cfg.Filename = inv.Filename
	return cfg, nil
}
