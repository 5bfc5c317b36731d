package config

import "time"

// Config is the root application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Review  ReviewConfig  `yaml:"review"`
	Log     LogConfig     `yaml:"log"`
}

// BackendConfig selects and tunes the generative-AI provider.
type BackendConfig struct {
	Provider string        `yaml:"provider" env:"PROVIDER" env-default:"openai"`
	Timeout  time.Duration `yaml:"timeout"  env:"BACKEND_TIMEOUT" env-default:"30s"`
	RPS      float64       `yaml:"rps"      env:"BACKEND_RPS"     env-default:"2"`
	Burst    int           `yaml:"burst"    env:"BACKEND_BURST"   env-default:"4"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// OpenAIConfig holds OpenAI-compatible API settings.
type OpenAIConfig struct {
	APIBase string `yaml:"api_base" env:"OPENAI_API_BASE" env-default:"https://api.openai.com/v1"`
	APIKey  string `yaml:"api_key"  env:"OPENAI_API_KEY"`
	Model   string `yaml:"model"    env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"   env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model"   env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-latest"`
}

// StorageConfig holds notebook storage settings.
type StorageConfig struct {
	// DataDir is the directory holding the notebook database. Empty
	// means the per-user default (~/.vocbuilder).
	DataDir               string `yaml:"data_dir"                env:"DATA_DIR"`
	DefaultTargetLanguage string `yaml:"default_target_language" env:"DEFAULT_TARGET_LANGUAGE" env-default:"en"`
}

// ReviewConfig tunes story and quiz generation.
type ReviewConfig struct {
	QuizDistractors int           `yaml:"quiz_distractors" env:"REVIEW_QUIZ_DISTRACTORS" env-default:"3"`
	QuizParallelism int           `yaml:"quiz_parallelism" env:"REVIEW_QUIZ_PARALLELISM" env-default:"4"`
	SessionTTL      time.Duration `yaml:"session_ttl"      env:"REVIEW_SESSION_TTL"      env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
