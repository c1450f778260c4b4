package pipegen

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/opnlabs/pipegen/pkg/changeset"
	"github.com/opnlabs/pipegen/pkg/generator"
	"github.com/opnlabs/pipegen/pkg/selection"
	"github.com/opnlabs/pipegen/pkg/store"
	"github.com/opnlabs/pipegen/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	rootManifestPath string
	envFile          string
)

var rootCmd = &cobra.Command{
	Use:   "pipegen",
	Short: "Pipegen generates a Buildkite pipeline for a monorepo",
	Long: `Pipegen reads a root manifest ( default .buildkite/buildkite.yml ) listing the
projects of a monorepo, merges each project's own stage manifest into one pipeline and
prints it on stdout. In a pull request only the stages selected by the changed files,
the trigger comment or the PR labels are kept; outside a pull request everything runs.`,

	Run: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				log.Fatalf("could not load %s: %v", envFile, err)
			}
		}

		run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&rootManifestPath, "manifest", "f", ".buildkite/buildkite.yml", "Path to the root manifest.")
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", "", "Load environment variables from a file before reading the build context.")

	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run() {
	resolver := changeset.NewResolver(
		os.Getenv("BUILDKITE_PULL_REQUEST_BASE_BRANCH"),
		store.NewMemStore(),
		utils.NewColorLogger("changeset", os.Stderr, true))

	gen := generator.New(selection.NewEngine(selection.FromEnv(), resolver), generator.Options{
		RootManifest: rootManifestPath,
		Out:          os.Stdout,
		Log:          utils.NewColorLogger("pipegen", os.Stderr, true),
	})

	if err := gen.Run(); err != nil {
		log.Fatal(err)
	}
}
