package chain

import (
	"fmt"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"
)

// Chain names as they appear in logs.
const (
	SelectionChainName  = "cube_selection"
	GenerationChainName = "query_generation"
)

// Selection prompt variants.
const (
	SelectionDefault = "default"
	SelectionStrict  = "strict"
)

// NoCubeAnswer is the phrase the selection prompt asks the model to use when
// no cube fits the question.
const NoCubeAnswer = "Unable to select proper cube"

var (
	DefaultSelectionProfile  = Profile{Model: "gpt-4o-mini", Temperature: 0.5, TopP: 0.5}
	DefaultGenerationProfile = Profile{Model: "gpt-4o-mini", Temperature: 0.2, TopP: 0.1}
)

const selectionCatalog = `
Given following data cubes with its labels and description:
{{cubes}}
`

const selectionQuestion = `
For this question: {{question}}
Return ONLY the cube ID that best matches this question.
If no cube matches even with these mandatory rules, return '` + NoCubeAnswer + `'
and list all topics that ARE available in the cubes. Format the available topics as a list with bullet points.
`

const strictSelectionCatalog = `
You are a precise cube selector that helps find the most appropriate data cube for a given question.
You will be provided with a list of data cubes, their labels, and descriptions:
{{cubes}}

Instructions:
1. Analyze the question carefully and identify the key information needs
2. Review available cubes and their descriptions thoroughly
3. Return ONLY the cube ID if you are highly confident (90%+) that:
   - The cube's data directly answers the main aspect of the question
   - The cube's scope and granularity match the question's requirements
   - No significant assumptions or stretches are needed to use this cube
4. Return "` + NoCubeAnswer + `" if:
   - No cube precisely matches the question's requirements
   - You need to make significant assumptions about the data's applicability
   - The connection between the question and cube is indirect or tangential
   Give justification if you are unable to select proper cube, explaining what data is there.
`

const strictSelectionQuestion = `Select a cube, which would be best to answer following question: {{question}}. Return cube ID.`

const generationSample = `
Given cube and its sample observation:
{{cube_and_sample}}
`

const generationDimensions = `
Dimensions labels:
{{dimensions_triplets}}
`

const generationRules = `
You are a SPARQL query generator. Generate only the SPARQL query without any additional text or explanations.
Important rules for query generation:
1. Do not add any explanatory text before or after the query
2. Do not wrap the output in code blocks or sparql tags
3. The query should start directly with the PREFIX declarations
4. For year/time filtering, use these exact patterns based on the type of time constraint:

For a specific year range:
FILTER(?year >= "2005"^^xsd:gYear && ?year <= "2007"^^xsd:gYear)

For years after a specific year:
FILTER(?year >= "2003"^^xsd:gYear)

For years before a specific year:
FILTER(?year <= "2005"^^xsd:gYear)

For a specific year:
FILTER(?year = "2004"^^xsd:gYear)
`

const baseQuery = `
PREFIX cube: <https://cube.link/>
PREFIX schema: <http://schema.org/>
PREFIX qudt: <http://qudt.org/schema/qudt/>
PREFIX sh: <http://www.w3.org/ns/shacl#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>

SELECT *
WHERE {
{{cube}} a cube:Cube;
  cube:observationSet ?observationSet.

?observationSet a cube:ObservationSet;
  cube:observation ?observation.

?observation a cube:Observation.
}
`

const generationRequest = "Modify this query: " + baseQuery + "\n to get {{question}} for this cube {{cube}}"

// SelectionPrompt returns the cube selection prompt for variant. It expects
// the variables cubes and question.
func SelectionPrompt(variant string) (Prompt, error) {
	switch variant {
	case "", SelectionDefault:
		return Prompt{
			{Role: ai.RoleSystem, Template: selectionCatalog},
			{Role: ai.RoleUser, Template: selectionQuestion},
		}, nil
	case SelectionStrict:
		return Prompt{
			{Role: ai.RoleSystem, Template: strictSelectionCatalog},
			{Role: ai.RoleUser, Template: strictSelectionQuestion},
		}, nil
	default:
		return nil, fmt.Errorf("unknown selection prompt variant %q", variant)
	}
}

// GenerationPrompt returns the query generation prompt. It expects the
// variables cube_and_sample, dimensions_triplets, cube and question.
func GenerationPrompt() Prompt {
	return Prompt{
		{Role: ai.RoleSystem, Template: generationSample},
		{Role: ai.RoleSystem, Template: generationDimensions},
		{Role: ai.RoleUser, Template: generationRequest},
		{Role: ai.RoleSystem, Template: generationRules},
	}
}

// NewSelectionChain builds the cube selection chain.
func NewSelectionChain(client ai.ChatClient, profile Profile, variant string, handler Handler) (*Chain, error) {
	prompt, err := SelectionPrompt(variant)
	if err != nil {
		return nil, err
	}
	return &Chain{
		Name:    SelectionChainName,
		Prompt:  prompt,
		Profile: profile,
		Client:  client,
		Handler: handler,
	}, nil
}

// NewGenerationChain builds the SPARQL generation chain.
func NewGenerationChain(client ai.ChatClient, profile Profile, handler Handler) *Chain {
	return &Chain{
		Name:    GenerationChainName,
		Prompt:  GenerationPrompt(),
		Profile: profile,
		Client:  client,
		Handler: handler,
	}
}
