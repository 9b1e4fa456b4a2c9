package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// BuildInfo describes the running binary. Version, Commit, and Date
// come from ldflags; the rest from the runtime.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentBuild() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		Date:      BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version, build information, and platform details for ventasync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}

func runVersion(short bool) error {
	formatter := newOutputFormatter()
	build := currentBuild()

	if short {
		if formatter.Format() == output.FormatJSON {
			return formatter.JSON(map[string]string{"version": build.Version})
		}
		formatter.Println("%s", build.Version)
		return nil
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(build)
	}

	formatter.Header("ventasync " + build.Version)
	formatter.Item("commit", build.Commit)
	formatter.Item("built", build.Date)
	formatter.Item("go", build.GoVersion)
	formatter.Item("platform", build.Platform)
	return nil
}
