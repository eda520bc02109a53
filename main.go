package main

import foodbot "github.com/Pablo-o-plomo/food-ai-bot/cmd/foodbot"

func main() {
	foodbot.Execute()
}
