package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cstsite/internal/config"
	"cstsite/internal/models"
	"cstsite/internal/store"
)

const exportPageSize = 500

type exportDocument struct {
	ExportedAt   time.Time               `yaml:"exported_at"`
	Contacts     []models.ContactMessage `yaml:"contacts"`
	Applications []models.JobApplication `yaml:"applications"`
}

func newExportCmd(cfg config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export contact messages and job applications as a YAML backup (binary payloads excluded)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(ctx context.Context, st *store.Store) error {
				w := io.Writer(os.Stdout)
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				doc := exportDocument{ExportedAt: time.Now().UTC()}

				for page := 1; ; page++ {
					messages, _, err := st.ListContacts(ctx, "", page, exportPageSize)
					if err != nil {
						return err
					}
					if len(messages) == 0 {
						break
					}
					for i := range messages {
						messages[i].Replies = models.StripReplyData(messages[i].Replies)
					}
					doc.Contacts = append(doc.Contacts, messages...)
				}

				for page := 1; ; page++ {
					apps, _, err := st.ListApplications(ctx, "", "", page, exportPageSize)
					if err != nil {
						return err
					}
					if len(apps) == 0 {
						break
					}
					for i := range apps {
						if apps[i].Resume != nil {
							stripped := apps[i].Resume.WithoutData()
							apps[i].Resume = &stripped
						}
						apps[i].Replies = models.StripReplyData(apps[i].Replies)
					}
					doc.Applications = append(doc.Applications, apps...)
				}

				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(doc)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}
