// x402 is a CLI client for paying x402 payment-gated APIs on Starknet.
//
// The x402 protocol uses HTTP 402 (Payment Required) status codes with
// signed off-chain payment authorizations to gate access to resources.
//
// Usage:
//
//	x402 health <url>              Check if endpoint requires payment
//	x402 pay <url>                 Pay for and fetch a resource
//	x402 allowance <token>         Read a token allowance
//	x402 approve <token>           Raise a token allowance
//	x402 balance <token>           Read a token balance
//	x402 networks                  List supported networks
//	x402 version                   Show version info
//
// For more information, visit: https://github.com/stark402/x402-cli
package main

import "github.com/stark402/x402-cli/internal/commands"

func main() {
	commands.Execute()
}
