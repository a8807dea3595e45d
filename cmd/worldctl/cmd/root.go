package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	gameID    string
	serverURL string
	jsonOut   bool
	verbose   bool
	dryrun    bool
)

// rootCmd is the base command, mirroring cmd/cli/cmd's ww root in
// shape but addressed at a worldserver HTTP endpoint rather than an
// in-process presenter.
var rootCmd = &cobra.Command{
	Use:          "worldctl",
	Short:        "Command-line client for an atlascore world server",
	SilenceUsage: true,
	Long: `worldctl drives a running worldserver over its HTTP API.

Examples:
  worldctl games list
  worldctl games create --name "Rome vs Carthage" --max-players 4
  worldctl games join <gameId>
  worldctl move <unitId> 5 6
  worldctl attack <attackerId> <defenderId>
  worldctl endturn

Global Flags:
  --server string     worldserver base URL (env: WORLDCTL_SERVER, default http://localhost:8080)
  --game-id string    game id to operate on (env: WORLDCTL_GAME_ID)
  --json              output in JSON format
  --verbose           show request/response details
  --dryrun            build and print the request without sending it`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.worldctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&gameID, "game-id", "", "game id to operate on (env: WORLDCTL_GAME_ID)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "worldserver base URL (env: WORLDCTL_SERVER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show request/response details")
	rootCmd.PersistentFlags().BoolVar(&dryrun, "dryrun", false, "build and print the request without sending it")

	viper.BindPFlag("game-id", rootCmd.PersistentFlags().Lookup("game-id"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("dryrun", rootCmd.PersistentFlags().Lookup("dryrun"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".worldctl")
	}

	viper.SetEnvPrefix("WORLDCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && isVerbose() {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

func getGameID() (string, error) {
	if rootCmd.PersistentFlags().Changed("game-id") {
		return gameID, nil
	}
	if id := viper.GetString("game-id"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("game id is required (set --game-id flag or WORLDCTL_GAME_ID env var)")
}

func getServerURL() string {
	if rootCmd.PersistentFlags().Changed("server") {
		return serverURL
	}
	if v := viper.GetString("server"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func isJSONOutput() bool { return viper.GetBool("json") }
func isVerbose() bool    { return viper.GetBool("verbose") }
func isDryrun() bool     { return viper.GetBool("dryrun") }
