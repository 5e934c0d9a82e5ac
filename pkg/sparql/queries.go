package sparql

import "strings"

// DefaultCreator restricts the catalog to cubes published by the Swiss
// Federal Office for the Environment.
const DefaultCreator = "<https://register.ld.admin.ch/opendataswiss/org/bundesamt-fur-umwelt-bafu>"

const prefixes = `PREFIX cube: <https://cube.link/>
PREFIX sh: <http://www.w3.org/ns/shacl#>
PREFIX schema: <http://schema.org/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX qudt: <http://qudt.org/schema/qudt/>
PREFIX dct: <http://purl.org/dc/terms/>
`

const catalogTemplate = prefixes + `
CONSTRUCT {
  ?cube a cube:Cube;
    schema:name ?label;
    schema:description ?description.
}
WHERE {
  ?cube a cube:Cube ;
    schema:name ?label ;
    schema:description ?description ;
    dct:creator {creator} .

  FILTER(lang(?label) = 'en')
  FILTER(lang(?description) = 'en')

  MINUS {
    ?cube schema:expires ?date .
  }
}
`

const sampleTemplate = prefixes + `
CONSTRUCT {
  ?cube a cube:Cube;
    cube:observationSet ?observationSet.
  ?observationSet a cube:observationSet;
    cube:observation ?s.
  ?s ?p ?o.
}
WHERE {
  {
    SELECT ?cube ?observationSet (SAMPLE(?observation) AS ?s)
    WHERE {
      VALUES ?cube { {cube} }
      ?cube a cube:Cube ;
        cube:observationSet ?observationSet.
      ?observationSet cube:observation ?observation.
    }
    GROUP BY ?cube ?observationSet
  }
  ?s ?p ?o .
}
`

const dimensionsTemplate = prefixes + `
CONSTRUCT {
  ?values schema:name ?label.
}
WHERE {
  SELECT ?values ?label
  WHERE {
    VALUES ?cube { {cube} }

    ?cube a cube:Cube ;
      cube:observationConstraint ?shape .

    ?shape a cube:Constraint;
      sh:property ?property .

    ?property sh:path ?dimensions ;
      sh:in ?list .

    ?list rdf:rest*/rdf:first ?values .

    ?values schema:name ?label .

    FILTER(lang(?label) = 'en')
  }
}
`

// CatalogDescriptionsQuery lists label and description of every live cube
// by creator. creator is a full SPARQL term, brackets included.
func CatalogDescriptionsQuery(creator string) string {
	return strings.ReplaceAll(catalogTemplate, "{creator}", creator)
}

// CubeSampleQuery fetches one sample observation per observation set of cube.
// cube is embedded verbatim and must be a full SPARQL term such as
// <https://example.org/cube/1>.
func CubeSampleQuery(cube string) string {
	return strings.ReplaceAll(sampleTemplate, "{cube}", cube)
}

// DimensionLabelsQuery fetches the English labels of the values allowed by
// the observation constraint of cube.
func DimensionLabelsQuery(cube string) string {
	return strings.ReplaceAll(dimensionsTemplate, "{cube}", cube)
}
