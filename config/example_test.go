package config_test

import (
	"fmt"
	"os"

	"github.com/jonwraymond/primeload/config"
)

func ExampleParse() {
	os.Setenv("PRIMELOAD_ADDR", ":9080")
	defer os.Unsetenv("PRIMELOAD_ADDR")

	cfg, err := config.Parse([]byte("server:\n  address: ${PRIMELOAD_ADDR}\nthrottling:\n  enabled: true\n  maxWait: 2s\n"))
	if err != nil {
		panic(err)
	}
	fmt.Println(cfg.Server.Address, cfg.Server.AdminAddress, cfg.Throttling.MaxWait)
	// Output: :9080 :8081 2s
}
