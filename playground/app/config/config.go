package config

// AppConfig contains the playground configuration, loaded from the APP_ env variables.
type AppConfig struct {
	Environment string `mapstructure:"env"`
	Region      string
	Greeting    *GreetingConfig
}

func (c *AppConfig) ApplyDefault() {
	if c.Environment == "" {
		c.Environment = "local"
	}
	if c.Region == "" {
		c.Region = "eu-west-1"
	}
}

type GreetingConfig struct {
	Message string
	Repeat  int
}

func (c *GreetingConfig) ApplyDefault() {
	if c.Message == "" {
		c.Message = "Hello world"
	}
	if c.Repeat <= 0 {
		c.Repeat = 1
	}
}
