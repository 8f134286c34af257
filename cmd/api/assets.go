package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clinicapi/internal/config"
	"clinicapi/internal/logging"
	"clinicapi/internal/report"
	"clinicapi/internal/storage"
)

func assetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage report letterhead images",
	}

	upload := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload header/footer images to object storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logging.Component(logging.New(cfg.LogLevel, cfg.IsDev()), "assets")

			store, err := storage.NewMinIO(cmd.Context(), cfg.MinIO)
			if err != nil {
				return err
			}
			prefix, _ := cmd.Flags().GetString("prefix")
			dst := report.StorageAssets{Store: store, Prefix: prefix}

			for _, path := range args {
				info, err := uploadAsset(cmd, store, dst.Key(filepath.Base(path)), path)
				if err != nil {
					return err
				}
				log.Info().Str("file", path).Str("key", info.Key).Int64("size", info.Size).Msg("asset_uploaded")
			}
			return nil
		},
	}
	upload.Flags().String("prefix", config.Load().Report.AssetPrefix, "object key prefix")

	cmd.AddCommand(upload)
	return cmd
}

func uploadAsset(cmd *cobra.Command, store storage.Storage, key, path string) (storage.ObjectInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}

	info, err := store.Put(cmd.Context(), key, f, storage.PutObjectOptions{Size: st.Size(), ContentType: ct})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload %s: %w", path, err)
	}
	return info, nil
}
