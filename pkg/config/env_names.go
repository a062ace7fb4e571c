package config

const EnvPrefix = "CARBONMENU"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "CARBONMENU_APP_ENV"
	EnvPort     = "CARBONMENU_APP_PORT"
	EnvMenuPath = "CARBONMENU_MENU_PATH"
)
