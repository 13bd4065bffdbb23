package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/artisan/internal/app"
	"go.trai.ch/artisan/internal/core/domain"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a generation task from reference images",
		Long: "Submit a generation task. Each --image is a URL, a data URI, or a local file; " +
			"local files are uploaded first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompt, _ := cmd.Flags().GetString("prompt")
			images, _ := cmd.Flags().GetStringArray("image")
			wait, _ := cmd.Flags().GetBool("wait")
			if len(images) == 0 {
				return domain.WithKind(domain.ErrValidation, domain.ErrNoImages)
			}

			status, err := c.app.Generate(cmd.Context(), app.GenerateOptions{
				Prompt: prompt,
				Images: images,
				Wait:   wait,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().StringP("prompt", "p", "", "Generation prompt (defaults to the configured prompt)")
	cmd.Flags().StringArrayP("image", "i", nil, "Reference image URL, data URI or file (repeatable)")
	cmd.Flags().BoolP("wait", "w", false, "Poll until the task reaches a terminal state")
	return cmd
}
