package quiz

// Config controls the behavior of the Client.
type Config struct {
	// Validators run in order after schema validation; the first failure
	// stops the pipeline. The structural check always runs, even when
	// this list is empty.
	Validators []Validator

	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0). Zero leaves the
	// provider default.
	Temperature float64
}

// DefaultConfig returns a Config with the strict validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ShapeValidator{},
		},
		MaxTokens: 8192,
	}
}

// LenientConfig returns a Config that only checks both lists exist.
func LenientConfig() Config {
	cfg := DefaultConfig()
	cfg.Validators = []Validator{&StructuralValidator{}}
	return cfg
}
