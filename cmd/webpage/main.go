package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "webpage",
	Short:   "Template-rendered site server",
	Long: `Webpage serves a directory of html/template files as a website,
with shared template context, named-route URL generation, and error
pages negotiated between JSON and HTML.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("templates-dir", "", "template directory (default: ./templates, env: WEBPAGE_TEMPLATES_DIR)")
	rootCmd.PersistentFlags().String("static-dir", "", "static file directory (env: WEBPAGE_STATIC_DIR)")

	_ = viper.BindPFlag("templates.dir", rootCmd.PersistentFlags().Lookup("templates-dir"))
	_ = viper.BindPFlag("static.dir", rootCmd.PersistentFlags().Lookup("static-dir"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
