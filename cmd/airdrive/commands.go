package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the drive, or open it if it already exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := airdrive.Create(cmd.Context(), a.opener(), a.cfg.Credential, a.cfg.Drive, a.driveOpts()...)
			if err != nil {
				return err
			}

			return d.Close()
		},
	}
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"login"},
		Short:   "List the files in the drive",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				files, err := d.Files(ctx)
				if err != nil {
					return err
				}

				return printLines(cmd.OutOrStdout(), files)
			})
		},
	}
}

func newFoldersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List the folders in the drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				folders, err := d.Folders(ctx)
				if err != nil {
					return err
				}

				return printLines(cmd.OutOrStdout(), folders)
			})
		},
	}
}

func newMkdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir FOLDER...",
		Short: "Create folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				for _, folder := range args {
					if err := d.CreateFolder(ctx, folder); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	var name, folder string

	cmd := &cobra.Command{
		Use:   "put LOCAL_FILE",
		Short: "Upload a local file, or standard input when LOCAL_FILE is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := airdrive.UploadInput{Name: name, Folder: folder}

			if args[0] == "-" {
				if name == "" {
					return errors.New("--name is required when uploading standard input")
				}

				in.Content = cmd.InOrStdin()
			} else {
				in.LocalPath = args[0]
				if in.Name == "" {
					in.Name = filepath.Base(args[0])
				}
			}

			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				return d.Upload(ctx, in)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name of the file in the drive (default: the local file's name)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder to upload into")

	return cmd
}

func newPutURLCmd(a *app) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "put-url URL NAME",
		Short: "Upload the content found at URL as NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				_, err := d.UploadFromURL(ctx, args[0], args[1], folder)

				return err
			})
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "folder to upload into")

	return cmd
}

func newMvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv OLD NEW",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				return d.Rename(ctx, args[0], args[1])
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE...",
		Short: "Download files to the local directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				for _, name := range args {
					if err := d.Download(ctx, name); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newGetAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-all",
		Short: "Download every file to the local directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				return d.DownloadAll(ctx)
			})
		},
	}
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE...",
		Short: "Concatenate files to standard output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				for _, name := range args {
					if err := cat(ctx, d, name, cmd.OutOrStdout()); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func cat(ctx context.Context, d *airdrive.Drive, name string, w io.Writer) error {
	s, err := d.FileStream(ctx, name)
	if err != nil {
		return err
	}

	defer s.Close()

	for chunk, err := range s.Chunks(airdrive.DefaultChunkSize) {
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}

	return nil
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm FILE...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				for _, name := range args {
					if err := d.Delete(ctx, name); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newRmAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-all",
		Short: "Delete every file and folder, keeping the drive itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDrive(cmd, func(ctx context.Context, d *airdrive.Drive) error {
				return d.DeleteAll(ctx)
			})
		},
	}
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	return nil
}
