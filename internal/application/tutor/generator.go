// Package tutor builds prompts and generates explanations for students.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"edu-tutor-api/pkg/errors"
)

// FallbackAnswer is returned verbatim when the completion service
// yields no usable text.
const FallbackAnswer = "No hay respuesta."

// systemPromptFormat frames the model as a friendly teacher for the
// student's grade. Kept in Spanish: it is part of the product's voice.
const systemPromptFormat = "Eres un profesor amable y paciente que enseña a niños de grado %s. Explica con ejemplos simples y emojis."

// ChatModelFactory is the generator's minimal dependency on the LLM layer.
type ChatModelFactory interface {
	Get(ctx context.Context) (model.BaseChatModel, error)
}

// Generator produces an explanation for a grade and topic.
type Generator struct {
	factory ChatModelFactory
}

func NewGenerator(factory ChatModelFactory) *Generator {
	return &Generator{factory: factory}
}

// Generate calls the completion service with a grade-parameterized
// system instruction and the topic as the user message. The first
// choice's text is trimmed; an empty reply becomes FallbackAnswer.
// Call failures are propagated, never retried.
func (g *Generator) Generate(ctx context.Context, grade, topic string) (string, error) {
	if g == nil || g.factory == nil {
		return "", fmt.Errorf("llm factory not configured")
	}

	chatModel, err := g.factory.Get(ctx)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "failed to build chat model")
	}

	msgs := []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(systemPromptFormat, grade)),
		schema.UserMessage(topic),
	}

	out, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "completion call failed")
	}
	if out == nil {
		return FallbackAnswer, nil
	}

	answer := strings.TrimSpace(out.Content)
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}
