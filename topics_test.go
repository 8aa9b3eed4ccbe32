package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ResolveTopic(t *testing.T) {
	cases := []struct {
		key      string
		question string
	}{
		{key: "scholarships", question: "Can you give me what scholarships are available"},
		{key: "career", question: "Can you tell me about career opportunities"},
		{key: "electives", question: "Can you provide information about electives"},
	}

	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			q, err := resolveTopic(c.key)
			require.NoError(t, err)
			assert.Equal(t, c.question, q)
		})
	}
}

func Test_ResolveTopic_Unknown(t *testing.T) {
	_, err := resolveTopic("tuition")
	assert.Error(t, err)
}
