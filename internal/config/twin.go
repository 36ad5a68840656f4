package config

// TwinConfig describes the persona served by the twin chat service.
type TwinConfig struct {
	FullName   string
	Name       string
	ContextDir string
	AvatarFile string
	Port       int
}

func GetTwinConfig() TwinConfig {
	return TwinConfig{
		FullName:   GetEnvOrDefault("TWIN_FULL_NAME", "Christopher Clowes"),
		Name:       GetEnvOrDefault("TWIN_NAME", "Christopher"),
		ContextDir: GetEnvOrDefault("TWIN_CONTEXT_DIR", "data"),
		AvatarFile: GetEnvOrDefault("TWIN_AVATAR_FILE", "public/avatar.png"),
		Port:       parseEnvInt("PORT", 8000),
	}
}
