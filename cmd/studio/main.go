package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-creative-studio/internal/config"
	"github.com/fpang/ai-creative-studio/internal/logging"
)

// Persistent flags shared by every generation command.
var (
	outFlag       string
	aspectFlag    string
	timeoutFlag   time.Duration
	envFileFlag   string
	validateFlag  bool
	selectKeyFlag bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "AI creative studio: images, thumbnails and videos from prompts",
	Long: `studio generates and edits images, renders YouTube-style thumbnails, and
produces short videos with Gemini, Imagen and Veo.

Every command writes its result into the output directory and prints the
saved path. Video commands poll the long-running job until it finishes.

Examples:
  studio generate "A dragon reading a book" --aspect 16:9
  studio edit --image me.jpg "Add a superhero cape"
  studio combine --image a.png --image b.png "Put both characters in one scene"
  studio thumbnail --image face.jpg --title "INSANE!" "Surprised face, exploding background"
  studio video --duration 2 "Waves crashing on a cliff at sunset"
  studio template --template "Retro VHS" "A summer road trip"
  studio templates`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init()
		var paths []string
		if envFileFlag != "" {
			paths = append(paths, envFileFlag)
		}
		return config.LoadDotEnv(paths...)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outFlag, "out", "o", ".", "Directory to save results in")
	pf.StringVarP(&aspectFlag, "aspect", "a", "", "Aspect ratio: 1:1, 16:9 or 9:16 (default depends on the mode)")
	pf.DurationVar(&timeoutFlag, "timeout", 0, "Give up on a video job after this long (default STUDIO_POLL_TIMEOUT or 15m)")
	pf.StringVar(&envFileFlag, "env-file", "", "Load environment variables from this file instead of .env")
	pf.BoolVar(&validateFlag, "validate", false, "Validate the API key before generating")
	pf.BoolVar(&selectKeyFlag, "select-key", false, "Choose the API key in a dialog instead of GEMINI_API_KEY")

	rootCmd.AddCommand(
		generateCmd, editCmd, enhanceCmd, combineCmd, thumbnailCmd,
		videoCmd, cartoonCmd, templateCmd,
		templatesCmd, ideasCmd, exportCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
