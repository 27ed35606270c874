package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// CatalogueHandler lists the report families and scope levels.
func CatalogueHandler() fiber.Handler {
	scopes := make([]string, 0, len(domain.ScopeLevels))
	for _, s := range domain.ScopeLevels {
		scopes = append(scopes, strings.ToLower(string(s)))
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"families": domain.Families,
			"scopes":   scopes,
		})
	}
}

// ReportHandler generates one report: GET /v1/reports/:family.
func ReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseReportRequest(c, false)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return serveReport(c, deps, req)
	}
}

// LegacyReportHandler serves the unversioned /reports/:family routes. Besides
// the current parameters it accepts scope=country&name=X&district=Y.
func LegacyReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseReportRequest(c, true)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return serveReport(c, deps, req)
	}
}

func serveReport(c *fiber.Ctx, deps *Dependencies, req domain.Request) error {
	report, err := deps.Reports.Generate(c.UserContext(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Set("X-Total-Count", strconv.Itoa(report.Len()))
	return c.JSON(report.Payload())
}

// parseReportRequest reads family, scope, name, country and limit. With
// legacy set, a district parameter next to a country scope becomes a
// district scope inside that country.
func parseReportRequest(c *fiber.Ctx, legacy bool) (domain.Request, error) {
	family, err := domain.ParseFamily(c.Params("family"))
	if err != nil {
		return domain.Request{}, err
	}
	scope, err := domain.ParseScopeLevel(c.Query("scope"))
	if err != nil {
		return domain.Request{}, err
	}
	limit, err := domain.ParseLimit(c.Query("limit"))
	if err != nil {
		return domain.Request{}, err
	}

	req := domain.Request{
		Family:  family,
		Scope:   scope,
		Name:    c.Query("name"),
		Country: c.Query("country"),
		Limit:   limit,
	}

	if district := c.Query("district"); legacy && district != "" && scope == domain.ScopeCountry {
		req.Scope = domain.ScopeDistrict
		req.Country = req.Name
		req.Name = district
	}
	return req, nil
}

// LookupHandler lists the selectable values of one scope level:
// GET /v1/lookups/:kind with offset/limit pagination.
func LookupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var level domain.ScopeLevel
		switch c.Params("kind") {
		case "continents":
			level = domain.ScopeContinent
		case "regions":
			level = domain.ScopeRegion
		case "countries":
			level = domain.ScopeCountry
		case "districts":
			level = domain.ScopeDistrict
		default:
			return errNotFound(c, "unknown lookup "+c.Params("kind"))
		}

		values, err := deps.Lookups.ByLevel(c.UserContext(), level, c.Query("country"))
		if err != nil {
			return writeServiceError(c, err)
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		page, pg := paginate(values, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}
