package main

import "fmt"

// topicQuestions maps each predefined topic to the canned question submitted
// on its behalf. Topic selections always query the web-page index, while
// free-text questions always query the document index.
var topicQuestions = map[string]string{
	"scholarships": "Can you give me what scholarships are available",
	"career":       "Can you tell me about career opportunities",
	"electives":    "Can you provide information about electives",
}

func resolveTopic(key string) (string, error) {
	q, ok := topicQuestions[key]
	if !ok {
		return "", fmt.Errorf("unknown topic: %s", key)
	}

	return q, nil
}
