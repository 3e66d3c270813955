package config

// MirrorBackend selects where the durable cart mirror is stored.
type MirrorBackend string

const (
	MirrorFile   MirrorBackend = "file"
	MirrorSQLite MirrorBackend = "sqlite"
)

// Config is the top-level storefront configuration, corresponding to .storefront.yml.
type Config struct {
	ShopName       string        `yaml:"shop_name" koanf:"shop_name"`
	Currency       string        `yaml:"currency" koanf:"currency"`
	WhatsAppNumber string        `yaml:"whatsapp_number" koanf:"whatsapp_number"`
	Port           int           `yaml:"port" koanf:"port"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	CatalogDir     string        `yaml:"catalog_dir" koanf:"catalog_dir"`
	Mirror         MirrorBackend `yaml:"mirror" koanf:"mirror"`
	MirrorPath     string        `yaml:"mirror_path" koanf:"mirror_path"`
	AllowAll       bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
