package domain

// DefaultCatalog is the built-in vocal exercise catalog served to the
// dashboard. Completion percentage is computed against its size.
var DefaultCatalog = []ExerciseDefinition{
	{
		ID:          "1",
		Title:       "Lip Trills",
		Description: "Gently blow air through closed lips, creating a motorboat sound while humming.",
		Duration:    "2-3 minutes",
		Difficulty:  "Beginner",
		Benefits: []string{
			"Releases lip and facial tension",
			"Improves breath support",
			"Warms up the voice gently",
		},
		Steps: []string{
			"Relax your lips and keep them gently closed",
			"Blow air through your lips so they vibrate",
			"Add a comfortable pitch and hold it steady",
			"Glide slowly up and down your range",
		},
	},
	{
		ID:          "2",
		Title:       "Humming Scales",
		Description: "Hum up and down a five-note scale with a relaxed jaw.",
		Duration:    "3-5 minutes",
		Difficulty:  "Beginner",
		Benefits: []string{
			"Builds pitch accuracy",
			"Encourages forward resonance",
			"Low-impact warm up",
		},
		Steps: []string{
			"Keep your lips closed and jaw loose",
			"Hum a comfortable starting note",
			"Move up five notes and back down",
			"Repeat, starting one note higher each time",
		},
	},
	{
		ID:          "3",
		Title:       "Vocal Sirens",
		Description: "Slide smoothly from your lowest comfortable note to your highest and back.",
		Duration:    "2-3 minutes",
		Difficulty:  "Intermediate",
		Benefits: []string{
			"Stretches the full vocal range",
			"Smooths register transitions",
			"Improves breath control",
		},
		Steps: []string{
			"Start on an 'ng' or 'oo' sound",
			"Glide slowly from low to high",
			"Reverse the glide without breaks",
			"Keep the volume even throughout",
		},
	},
	{
		ID:          "4",
		Title:       "Straw Phonation",
		Description: "Phonate through a drinking straw to balance air pressure across the vocal folds.",
		Duration:    "3-5 minutes",
		Difficulty:  "Intermediate",
		Benefits: []string{
			"Reduces vocal fold strain",
			"Promotes efficient closure",
			"Useful for recovery days",
		},
		Steps: []string{
			"Place a straw between your lips",
			"Sustain a comfortable pitch through it",
			"Glide gently up and down",
			"Finish with a few easy scales",
		},
	},
}

// FindExercise returns the catalog entry for id, or nil when unknown.
func FindExercise(id string) *ExerciseDefinition {
	for i := range DefaultCatalog {
		if DefaultCatalog[i].ID == id {
			return &DefaultCatalog[i]
		}
	}
	return nil
}
