package service

import (
	"fmt"
	"strings"

	"snowlens/internal/domain"
)

const promptPreamble = `You are an expert in SQL query optimization on Snowflake.

Analyze the following SQL query and provide detailed optimization suggestions.`

const promptInstructions = `## Instructions:

Provide a complete analysis with:

1. **SQL optimizations**:
   - Query rewrite suggestions
   - JOIN improvements
   - WHERE clause optimization
   - Use of clustering keys
   - CTE or subquery suggestions

2. **Warehouse optimizations**:
   - Recommended warehouse size
   - Use of multi-cluster warehouses
   - Auto-suspend and auto-resume settings
   - Concurrency management

3. **General optimizations**:
   - Execution time improvement
   - Cost reduction
   - Snowflake best practices

Format your response clearly with well-defined sections.`

// PromptBuilder assembles the optimization prompt. Build is a pure,
// deterministic function of its inputs: identical inputs always yield a
// byte-identical prompt.
type PromptBuilder struct{}

// NewPromptBuilder creates a PromptBuilder.
func NewPromptBuilder() *PromptBuilder { return &PromptBuilder{} }

// Build renders the prompt in fixed section order: preamble, the query text
// verbatim in a fenced block, execution metrics as labeled lines, one
// section per table (in input order, never dropped), and the instruction
// block. Single quotes in the query text and in free-text metadata fields
// are doubled before insertion so instruction-like text embedded in user SQL
// stays inside its fenced block. The query text is never executed or
// interpreted.
func (b *PromptBuilder) Build(queryText string, metrics []domain.MetricLine, tables []domain.TableMetadata) (domain.OptimizationPrompt, error) {
	if strings.TrimSpace(queryText) == "" {
		return "", domain.ErrPromptConstruction("query text is empty")
	}

	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\n## SQL query to analyze:\n\n")
	sb.WriteString("```sql\n")
	sb.WriteString(escapeQuotes(queryText))
	sb.WriteString("\n```\n")

	sb.WriteString("\n## Execution metrics:\n\n")
	if len(metrics) == 0 {
		sb.WriteString("- No execution metrics available\n")
	}
	for _, m := range metrics {
		fmt.Fprintf(&sb, "- %s: %s\n", m.Label, escapeQuotes(m.Value))
	}

	sb.WriteString("\n## Metadata of tables used:\n")
	if len(tables) == 0 {
		sb.WriteString("\nNo table references were found in the query.\n")
	}
	for _, t := range tables {
		writeTableSection(&sb, t)
	}

	sb.WriteString("\n")
	sb.WriteString(promptInstructions)

	return domain.OptimizationPrompt(sb.String()), nil
}

func writeTableSection(sb *strings.Builder, t domain.TableMetadata) {
	fmt.Fprintf(sb, "\n### Table %s\n\n", escapeQuotes(t.QualifiedName))

	if !t.Available() {
		reason := t.Reason
		if reason == "" {
			reason = "unknown"
		}
		fmt.Fprintf(sb, "Metadata unavailable: %s\n", escapeQuotes(reason))
		return
	}

	if len(t.Columns) > 0 {
		sb.WriteString("Columns:\n")
		for _, c := range t.Columns {
			fmt.Fprintf(sb, "- %s %s", c.Name, c.Type)
			if !c.Nullable {
				sb.WriteString(" NOT NULL")
			}
			if c.Default != nil {
				fmt.Fprintf(sb, " DEFAULT %s", escapeQuotes(*c.Default))
			}
			if c.Comment != nil && *c.Comment != "" {
				fmt.Fprintf(sb, " -- %s", escapeQuotes(*c.Comment))
			}
			sb.WriteString("\n")
		}
	}

	writeStatistics(sb, t.Statistics)

	if len(t.Constraints) > 0 {
		sb.WriteString("Constraints:\n")
		for _, c := range t.Constraints {
			fmt.Fprintf(sb, "- %s (%s)\n", escapeQuotes(c.Name), c.Kind)
		}
	}
}

func writeStatistics(sb *strings.Builder, s domain.TableStatistics) {
	if s == (domain.TableStatistics{}) {
		return
	}
	sb.WriteString("Statistics:\n")
	if s.RowCount != nil {
		fmt.Fprintf(sb, "- Row count: %d\n", *s.RowCount)
	}
	if s.ByteSize != nil {
		fmt.Fprintf(sb, "- Size (bytes): %d\n", *s.ByteSize)
	}
	if s.RetentionDays != nil {
		fmt.Fprintf(sb, "- Retention (days): %d\n", *s.RetentionDays)
	}
	if s.CreatedAt != nil {
		fmt.Fprintf(sb, "- Created: %s\n", s.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	if s.LastAlteredAt != nil {
		fmt.Fprintf(sb, "- Last altered: %s\n", s.LastAlteredAt.UTC().Format("2006-01-02 15:04:05"))
	}
}

// escapeQuotes doubles single quotes so SQL-literal content cannot escape
// its surrounding context downstream.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
