package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalashnikxvxiii-collab/StegVault/internal/config"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/gallery"
	"github.com/kalashnikxvxiii-collab/StegVault/pkg/stegvault"
)

func cmdGallery(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("gallery: expected init, add, list or remove")
	}
	switch args[0] {
	case "init":
		return galleryInit(cfg, args[1:])
	case "add":
		return galleryAdd(cfg, args[1:])
	case "list":
		return galleryList(cfg, args[1:])
	case "remove":
		return galleryRemove(cfg, args[1:])
	default:
		return fmt.Errorf("gallery: unknown subcommand %q", args[0])
	}
}

func openGallery(cfg *config.Config, dbPath string) (*gallery.Gallery, error) {
	if dbPath == "" {
		dbPath = cfg.GalleryPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create gallery directory: %w", err)
	}
	return gallery.Open(dbPath, cfg.GalleryKey)
}

func galleryInit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gallery init", flag.ExitOnError)
	dbPath := fs.String("db-path", "", "gallery database path (default: config)")
	fs.Parse(args)

	g, err := openGallery(cfg, *dbPath)
	if err != nil {
		return err
	}
	defer g.Close()
	fmt.Println("Gallery initialized")
	return nil
}

func galleryAdd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gallery add", flag.ExitOnError)
	dbPath := fs.String("db-path", "", "gallery database path (default: config)")
	image := fs.String("image", "", "stego image file")
	label := fs.String("label", "", "unique label for this vault image")
	fs.Parse(args)
	if *image == "" || *label == "" {
		return fmt.Errorf("gallery add: -image and -label are required")
	}

	data, err := os.ReadFile(*image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	info, err := stegvault.CalculateCapacity(data)
	if err != nil {
		return err
	}

	g, err := openGallery(cfg, *dbPath)
	if err != nil {
		return err
	}
	defer g.Close()

	abs, err := filepath.Abs(*image)
	if err != nil {
		abs = *image
	}
	id, err := g.Add(gallery.Record{
		Label:    *label,
		Path:     abs,
		SHA256:   gallery.ContentHash(data),
		Width:    info.Width,
		Height:   info.Height,
		Capacity: info.CapacityBytes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %q (id %d)\n", *label, id)
	return nil
}

func galleryList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gallery list", flag.ExitOnError)
	dbPath := fs.String("db-path", "", "gallery database path (default: config)")
	fs.Parse(args)

	g, err := openGallery(cfg, *dbPath)
	if err != nil {
		return err
	}
	defer g.Close()

	records, err := g.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Gallery is empty")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%-20s %dx%d  %6d bytes  %s\n",
			rec.Label, rec.Width, rec.Height, rec.Capacity, rec.Path)
	}
	return nil
}

func galleryRemove(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gallery remove", flag.ExitOnError)
	dbPath := fs.String("db-path", "", "gallery database path (default: config)")
	label := fs.String("label", "", "label to remove")
	fs.Parse(args)
	if *label == "" {
		return fmt.Errorf("gallery remove: -label is required")
	}

	g, err := openGallery(cfg, *dbPath)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.Remove(*label); err != nil {
		return err
	}
	fmt.Printf("Removed %q\n", *label)
	return nil
}
