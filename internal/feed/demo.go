// Package feed synthesizes demo post batches for topics when the caller
// does not supply its own posts.
package feed

import "fmt"

// demoTemplates mirror the fixed demo corpus: a mixed-sentiment spread so
// demo runs land near the middle of the scale instead of pinning an extreme.
var demoTemplates = []string{
	"%s is going to the moon 🚀🚀",
	"People are scared, but %s looks strong",
	"%s is overhyped, might dump soon",
	"Huge whales are buying %s, bullish vibes",
	"%s sentiment looks mixed right now",
}

// Posts returns the deterministic demo batch for a topic.
func Posts(topic string) []string {
	posts := make([]string, len(demoTemplates))
	for i, tmpl := range demoTemplates {
		posts[i] = fmt.Sprintf(tmpl, topic)
	}
	return posts
}
