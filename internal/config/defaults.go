package config

const (
	defaultCourseRoot          = "."
	defaultLogDir              = "~/.local/share/coursebuild/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultAlignBinary         = "whisperx"
	defaultAlignLanguage       = "th"
	defaultAlignTimeoutSecs    = 300
	defaultRenderTimeoutSecs   = 120
	defaultQuizSetSize         = 10
	defaultQuizPassScore       = 80
	defaultQuizItemsPerNewWord = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CourseRoot: defaultCourseRoot,
			LogDir:     defaultLogDir,
		},
		Policy: Policy{
			RequireToneMarks: true,
		},
		Align: Align{
			Binary:         defaultAlignBinary,
			Language:       defaultAlignLanguage,
			TimeoutSeconds: defaultAlignTimeoutSecs,
		},
		Render: Render{
			TimeoutSeconds: defaultRenderTimeoutSecs,
		},
		Quiz: Quiz{
			SetSize:         defaultQuizSetSize,
			PassScore:       defaultQuizPassScore,
			ItemsPerNewWord: defaultQuizItemsPerNewWord,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
