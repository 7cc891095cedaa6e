package a

import "log"

type config struct {
	APIKey string
	Domain string
}

func Mask(s string) string {
	if len(s) <= 6 {
		return "******"
	}
	return s[:4] + "**" + s[len(s)-2:]
}

func logging(cfg config, apiKey string) {
	log.Println("key", cfg.APIKey) // want "значение APIKey попадает в лог без маскирования"
	log.Printf("key %s", apiKey)    // want "значение apiKey попадает в лог без маскирования"
	log.Println("key", Mask(cfg.APIKey))
	log.Println("domain", cfg.Domain)
	log.Printf("len %d", len(apiKey)) // want "значение apiKey попадает в лог без маскирования"
}

func notLogging(cfg config) string {
	return cfg.APIKey
}
