package config

// File is the on-disk shape of cfgcache.yaml.
type File struct {
	CacheDir       string `yaml:"cacheDir"`
	Compression    string `yaml:"compression"`
	LogFormat      string `yaml:"logFormat"`
	FailOnProblems *bool  `yaml:"failOnProblems"`
}
