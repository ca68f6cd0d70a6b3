// Package main is the entry point for the market-price-tracker service.
package main

import "github.com/donaldgifford/market-price-tracker/cmd/market-price-tracker/cmd"

func main() {
	cmd.Execute()
}
