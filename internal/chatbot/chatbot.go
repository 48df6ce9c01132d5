// Package chatbot answers common donation questions from a keyword table.
// The table is content, loaded from YAML, not code.
package chatbot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content/chatbot.yaml
var defaultContent []byte

// Content is the chatbot.yaml document.
type Content struct {
	Version  int      `yaml:"version"`
	Fallback string   `yaml:"fallback"`
	Intents  []Intent `yaml:"intents"`
}

// Intent is one keyword rule. Keywords match as lower-case substrings.
type Intent struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Answer is the bot's reply to one message.
type Answer struct {
	Intent  string `json:"intent"`
	Reply   string `json:"reply"`
	Matched bool   `json:"matched"`
}

// Bot matches messages against intents in file order.
type Bot struct {
	fallback string
	intents  []Intent
}

// Default returns a bot over the embedded content.
func Default() (*Bot, error) {
	return Parse(defaultContent)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Bot, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chatbot content: %w", err)
	}
	return Parse(data)
}

// Parse builds a bot from YAML content.
func Parse(data []byte) (*Bot, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse chatbot content: %w", err)
	}
	if strings.TrimSpace(c.Fallback) == "" {
		return nil, errors.New("chatbot content: fallback reply is required")
	}
	bot := &Bot{fallback: strings.TrimSpace(c.Fallback)}
	for i, in := range c.Intents {
		if in.Name == "" || strings.TrimSpace(in.Reply) == "" {
			return nil, fmt.Errorf("chatbot content: intent %d needs a name and a reply", i)
		}
		keywords := make([]string, 0, len(in.Keywords))
		for _, k := range in.Keywords {
			if k = strings.ToLower(k); strings.TrimSpace(k) != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("chatbot content: intent %q has no keywords", in.Name)
		}
		bot.intents = append(bot.intents, Intent{Name: in.Name, Keywords: keywords, Reply: strings.TrimSpace(in.Reply)})
	}
	return bot, nil
}

// Reply returns the first intent with a keyword contained in the lower-cased
// message, else the fallback.
func (b *Bot) Reply(message string) Answer {
	// Pad so keywords with a trailing space still match at the end of input.
	msg := strings.ToLower(strings.TrimSpace(message)) + " "
	for _, in := range b.intents {
		for _, k := range in.Keywords {
			if strings.Contains(msg, k) {
				return Answer{Intent: in.Name, Reply: in.Reply, Matched: true}
			}
		}
	}
	return Answer{Intent: "fallback", Reply: b.fallback}
}

// Intents returns the intent names in match order.
func (b *Bot) Intents() []string {
	names := make([]string, len(b.intents))
	for i, in := range b.intents {
		names[i] = in.Name
	}
	return names
}
