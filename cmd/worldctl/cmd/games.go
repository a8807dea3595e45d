package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List, create, and join games",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List games hosted on the server",
	RunE:  runGamesList,
}

var (
	createName       string
	createMaxPlayers int
	createMapWidth   int
	createMapHeight  int
	createNation     string
)

var gamesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new game",
	RunE:  runGamesCreate,
}

var gamesJoinCmd = &cobra.Command{
	Use:   "join <gameId>",
	Short: "Join an existing lobby",
	Args:  cobra.ExactArgs(1),
	RunE:  runGamesJoin,
}

func init() {
	gamesCreateCmd.Flags().StringVar(&createName, "name", "", "game name (required)")
	gamesCreateCmd.Flags().IntVar(&createMaxPlayers, "max-players", 2, "maximum number of players")
	gamesCreateCmd.Flags().IntVar(&createMapWidth, "map-width", 0, "map width (server default if 0)")
	gamesCreateCmd.Flags().IntVar(&createMapHeight, "map-height", 0, "map height (server default if 0)")
	gamesCreateCmd.Flags().StringVar(&createNation, "nation", "random", "nation to play as")
	gamesJoinCmd.Flags().StringVar(&createNation, "nation", "random", "nation to play as")

	gamesCmd.AddCommand(gamesListCmd, gamesCreateCmd, gamesJoinCmd)
	rootCmd.AddCommand(gamesCmd)
}

func runGamesList(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	resp, err := c.do(http.MethodGet, "/api/games", nil)
	if err != nil {
		return f.PrintError(err)
	}
	var out []map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	for _, g := range out {
		fmt.Printf("%-24v %-20v %-8v %v/%v players  %v\n",
			g["id"], g["name"], g["status"], g["currentPlayers"], "-", g["mapSize"])
	}
	return nil
}

func runGamesCreate(cmd *cobra.Command, args []string) error {
	if createName == "" {
		return fmt.Errorf("--name is required")
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	body := map[string]any{
		"name":           createName,
		"maxPlayers":     createMaxPlayers,
		"mapWidth":       createMapWidth,
		"mapHeight":      createMapHeight,
		"selectedNation": createNation,
	}
	if isDryrun() {
		return f.PrintSuccess(fmt.Sprintf("would create game %q (max %d players)", createName, createMaxPlayers))
	}
	resp, err := c.do(http.MethodPost, "/api/games", body)
	if err != nil {
		return f.PrintError(err)
	}
	var out map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	return f.PrintSuccess(fmt.Sprintf("created game %v, assigned nation %v", out["gameId"], out["assignedNation"]))
}

func runGamesJoin(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	id := args[0]
	if isDryrun() {
		return f.PrintSuccess(fmt.Sprintf("would join game %s as %s", id, createNation))
	}
	resp, err := c.do(http.MethodPost, "/api/games/"+id+"/join", map[string]string{"selectedNation": createNation})
	if err != nil {
		return f.PrintError(err)
	}
	var out map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	return f.PrintSuccess(fmt.Sprintf("joined %s as player %v, nation %v", id, out["playerId"], out["assignedNation"]))
}
