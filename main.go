// silverbot scrapes a public silver pricing page, detects material
// change against the last committed snapshot, and notifies a Telegram
// chat on a genuine change.
package main

import "github.com/dutotheke/silver-price-notifier/cmd"

func main() {
	cmd.Execute()
}
