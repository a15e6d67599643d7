package main

import (
	"github.com/smy-101/skillmarket/internal/config"
	"github.com/smy-101/skillmarket/pkg/cmd"
	"github.com/spf13/viper"
)

func main() {
	initViper()
	cmd.Execute()
}

// initViper registers defaults and environment bindings on the global viper
// instance. The optional config file is read by the root command once flags
// are parsed.
func initViper() {
	config.SetDefaults(viper.GetViper())
}
