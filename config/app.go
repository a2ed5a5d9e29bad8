package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
}

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	// 签发 token 的默认有效期（秒），仅 token 命令使用
	ExpiresIn int `json:"expires_in" yaml:"expires_in"`
}
