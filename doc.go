/*
Package spritemap builds map icon spritemaps: it turns a collection of SVG icons into
one PNG atlas per pixel density, together with a JSON file locating every sprite.

Each icon is recolored for every configured theme and resized to every configured size.
The resulting variants are scaled by the density factor, packed onto a canvas with a
transparent border around each of them, and drawn over an optional blurred glow halo.

The package provides a command line interface. To check the supported commands type:

	$ spritemap --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/spritemap"
	)

	func main() {
		cfg, err := spritemap.LoadConfig("config.json")
		if err != nil {
			log.Fatal(err)
		}
		p := &spritemap.Processor{
			Config:   cfg,
			Provider: &spritemap.DirProvider{Root: "iconsets"},
			OutDir:   "sprites",
		}
		if _, err := p.Run(context.Background()); err != nil {
			log.Fatalf("Error building the spritemaps: %v", err)
		}
	}
*/
package spritemap
