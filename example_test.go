package airdrive_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/autostore"
)

func Example() {
	ctx := context.Background()

	dir, _ := os.MkdirTemp("", "airdrive-example")
	defer os.RemoveAll(dir)

	d, err := airdrive.Create(ctx, autostore.Mux(), "file://"+dir, "notes", airdrive.WithSilent(true))
	if err != nil {
		panic(err)
	}

	defer d.Close()

	_ = d.Upload(ctx, airdrive.UploadInput{Name: "hello.txt", Content: strings.NewReader("hello world")})
	_ = d.CreateFolder(ctx, "archive")
	_ = d.Rename(ctx, "hello.txt", "archive/hello.txt")

	files, _ := d.Files(ctx)
	fmt.Println(files)

	b, _ := d.Cache(ctx, "archive/hello.txt")
	fmt.Println(string(b))

	// Output:
	// [archive/hello.txt]
	// hello world
}

func ExampleLogin() {
	ctx := context.Background()

	_, err := airdrive.Login(ctx, autostore.Mux(), "mem://ExampleLogin", "nobody", airdrive.WithSilent(true))
	fmt.Println(err)

	// Output:
	// login nobody: unable to open drive: login nobody: drive does not exist
}
