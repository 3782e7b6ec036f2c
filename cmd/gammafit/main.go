// Package main provides the gammafit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gammafit/gammafit/catalog"
	"github.com/gammafit/gammafit/modeling"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("gammafit %s\n", version)
	case "inspect":
		err = inspect(os.Args[2:])
	case "graph":
		err = graph(os.Args[2:])
	case "catalogs":
		catalogs()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gammafit: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("gammafit - gamma-ray source modeling for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                    Show version")
	fmt.Println("  inspect <components.yaml>  Summarize a components file")
	fmt.Println("  graph <components.yaml>    Print the parameter ownership graph as DOT")
	fmt.Println("  catalogs                   List built-in source catalogs")
}

func inspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gammafit inspect <components.yaml>")
	}
	c, err := modeling.ReadComponents(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d components, %d shared parameters\n", args[0], len(c.Components), len(c.Links))
	for _, rec := range c.Components {
		kind := "composite"
		params := 0
		if rec.Model != nil {
			kind = rec.Model.Type
			params = len(rec.Model.Parameters)
		} else {
			if rec.Spatial != nil {
				params += len(rec.Spatial.Parameters)
			}
			if rec.Spectral != nil {
				params += len(rec.Spectral.Parameters)
			}
		}
		fmt.Printf("  %-24s %-24s %d parameters\n", rec.Name, kind, params)
	}
	for _, link := range c.Links {
		fmt.Printf("  shared %q across %v\n", link.Name, link.Owners)
	}
	return nil
}

func graph(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gammafit graph <components.yaml>")
	}
	c, err := modeling.ReadComponents(args[0])
	if err != nil {
		return err
	}
	return modeling.ComponentsShareDOT(c, os.Stdout)
}

func catalogs() {
	fmt.Println("Built-in source catalogs:")
	for _, d := range catalog.Builtin() {
		fmt.Printf("  %-12s %-16s %s\n", d.Name, d.Filename, d.Description)
	}
}
