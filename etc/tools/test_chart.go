package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chartkit/internal/chart"
	"chartkit/internal/font"
	"chartkit/internal/render"
)

// go run etc/tools/test_chart.go
// in etc/charts/<example>.<png|svg|pdf>
func main() {
	fmt.Println("Generating example charts...")

	out := filepath.Join("etc", "charts")
	book := font.NewBook()
	for _, ex := range chart.Examples() {
		for _, f := range render.Formats() {
			path := filepath.Join(out, ex.Name+f.Ext())
			if _, err := chart.RenderFile(context.Background(), ex.Graph, ex.Kind, path, book); err != nil {
				fmt.Printf("Error generating %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("Chart generated successfully: %s\n", path)
		}
	}
	fmt.Println("Open the files to see the result!")
}
