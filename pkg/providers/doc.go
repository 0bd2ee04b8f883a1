// Package providers groups the generation.Generator implementations.
//
// Sub-packages:
//   - [github.com/germanamz/promptrunner/pkg/providers/gemini]: the Gemini REST API over [github.com/germanamz/promptrunner/pkg/modeladapter]
//   - [github.com/germanamz/promptrunner/pkg/providers/genaisdk]: the official google.golang.org/genai client
package providers
