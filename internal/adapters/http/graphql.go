package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// Populations exceed the 32-bit GraphQL Int, so they are exposed as Float.

var reportArgs = graphql.FieldConfigArgument{
	"scope":   &graphql.ArgumentConfig{Type: graphql.String, Description: "global, continent, region, country or district"},
	"name":    &graphql.ArgumentConfig{Type: graphql.String},
	"country": &graphql.ArgumentConfig{Type: graphql.String, Description: "Country context for a district"},
	"limit":   &graphql.ArgumentConfig{Type: graphql.Int, Description: "Omit for every row"},
}

// requestFromArgs turns field arguments into a report request.
func requestFromArgs(family domain.Family, args map[string]any) (domain.Request, error) {
	str := func(key string) string {
		s, _ := args[key].(string)
		return s
	}
	scope, err := domain.ParseScopeLevel(str("scope"))
	if err != nil {
		return domain.Request{}, err
	}
	limit := domain.Unlimited
	if n, ok := args["limit"].(int); ok && n >= 0 {
		limit = domain.Limit(n)
	}
	return domain.Request{
		Family:  family,
		Scope:   scope,
		Name:    str("name"),
		Country: str("country"),
		Limit:   limit,
	}, nil
}

// buildSchema creates the GraphQL schema wired to the report and lookup services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	countryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Country",
		Fields: graphql.Fields{
			"code":        &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"continent":   &graphql.Field{Type: graphql.String},
			"region":      &graphql.Field{Type: graphql.String},
			"population":  &graphql.Field{Type: graphql.Float},
			"capitalName": &graphql.Field{Type: graphql.String},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"continent":  &graphql.Field{Type: graphql.String},
			"district":   &graphql.Field{Type: graphql.String},
			"population": &graphql.Field{Type: graphql.Float},
		},
	})

	capitalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Capital",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"continent":  &graphql.Field{Type: graphql.String},
			"region":     &graphql.Field{Type: graphql.String},
			"population": &graphql.Field{Type: graphql.Float},
		},
	})

	populationRowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PopulationRow",
		Fields: graphql.Fields{
			"label":             &graphql.Field{Type: graphql.String},
			"totalPopulation":   &graphql.Field{Type: graphql.Float},
			"cityPopulation":    &graphql.Field{Type: graphql.Float},
			"cityPct":           &graphql.Field{Type: graphql.Float},
			"nonCityPopulation": &graphql.Field{Type: graphql.Float},
			"nonCityPct":        &graphql.Field{Type: graphql.Float},
		},
	})

	populationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PopulationReport",
		Fields: graphql.Fields{
			"globalPopulation": &graphql.Field{Type: graphql.Float},
			"data":             &graphql.Field{Type: graphql.NewList(populationRowType)},
		},
	})

	languageType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Language",
		Description: "scopeName and pctOfScope are null for global rows",
		Fields: graphql.Fields{
			"scopeType":   &graphql.Field{Type: graphql.String},
			"scopeName":   &graphql.Field{Type: graphql.String},
			"language":    &graphql.Field{Type: graphql.String},
			"speakers":    &graphql.Field{Type: graphql.Float},
			"pctOfScope":  &graphql.Field{Type: graphql.Float},
			"pctOfGlobal": &graphql.Field{Type: graphql.Float},
		},
	})

	lookupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Lookup",
		Fields: graphql.Fields{
			"type":  &graphql.Field{Type: graphql.String},
			"code":  &graphql.Field{Type: graphql.String},
			"value": &graphql.Field{Type: graphql.String},
		},
	})

	report := func(family domain.Family, typ graphql.Output, desc string, payload func(*domain.Report) any) *graphql.Field {
		return &graphql.Field{
			Type:        typ,
			Description: desc,
			Args:        reportArgs,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				req, err := requestFromArgs(family, p.Args)
				if err != nil {
					return nil, err
				}
				r, err := deps.Reports.Generate(p.Context, req)
				if err != nil {
					return nil, err
				}
				return payload(r), nil
			},
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"countries": report(domain.FamilyCountry, graphql.NewList(countryType),
				"Countries by population",
				func(r *domain.Report) any { return r.Countries }),
			"cities": report(domain.FamilyCity, graphql.NewList(cityType),
				"Cities by population",
				func(r *domain.Report) any { return r.Cities }),
			"capitals": report(domain.FamilyCapital, graphql.NewList(capitalType),
				"Capital cities by population",
				func(r *domain.Report) any { return r.Capitals }),
			"populations": report(domain.FamilyPopulation, populationType,
				"Population living in and outside cities",
				func(r *domain.Report) any { return r.Population }),
			"languages": report(domain.FamilyLanguage, graphql.NewList(languageType),
				"Language speakers",
				func(r *domain.Report) any { return languageMaps(r.Languages) }),
			"lookups": &graphql.Field{
				Type:        graphql.NewList(lookupType),
				Description: "Selectable values of a scope level",
				Args: graphql.FieldConfigArgument{
					"scope":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"country": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					level, err := domain.ParseScopeLevel(p.Args["scope"].(string))
					if err != nil {
						return nil, err
					}
					country, _ := p.Args["country"].(string)
					return deps.Lookups.ByLevel(p.Context, level, country)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// languageMaps flattens both language row shapes into one GraphQL object.
func languageMaps(rows []domain.LanguageRow) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		switch r := row.(type) {
		case domain.GlobalLanguageRow:
			out = append(out, map[string]any{
				"scopeType":   string(r.ScopeType),
				"language":    r.Language,
				"speakers":    r.Speakers.Float(),
				"pctOfGlobal": r.PctOfGlobal,
			})
		case domain.ScopedLanguageRow:
			out = append(out, map[string]any{
				"scopeType":   string(r.ScopeType),
				"scopeName":   r.ScopeName,
				"language":    r.Language,
				"speakers":    r.Speakers.Float(),
				"pctOfScope":  r.PctOfScope,
				"pctOfGlobal": r.PctOfGlobal,
			})
		}
	}
	return out
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
