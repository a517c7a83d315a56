package prompt

import (
	"fmt"
	"strings"

	"ai-docchat/pkg/rag/retrieval"
)

// DocumentBuilder builds a prompt that grounds the answer in excerpts of the uploaded document.
type DocumentBuilder struct {
	filename string
	excerpts []retrieval.ScoredChunk
	question string
}

func NewDocumentBuilder(filename string, excerpts []retrieval.ScoredChunk, question string) *DocumentBuilder {
	return &DocumentBuilder{
		filename: filename,
		excerpts: excerpts,
		question: question,
	}
}

func (b *DocumentBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *DocumentBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.excerpts) == 0 {
		return
	}

	fmt.Fprintf(prompt, "<reference_material source=%q>\n", b.filename)
	for _, e := range b.excerpts {
		fmt.Fprintf(prompt, "<excerpt index=\"%d\">\n%s\n</excerpt>\n", e.Index+1, strings.TrimSpace(e.Text))
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *DocumentBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You answer questions about a single document the user uploaded.\n")
	prompt.WriteString("The excerpts above are the parts of the document most related to the question.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *DocumentBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material\n")
	prompt.WriteString("2. If the material does not contain the answer, say so honestly\n")
	prompt.WriteString("3. Keep the answer concise and well organized\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *DocumentBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now answer based on the reference material:")
}
