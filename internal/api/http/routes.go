package httpapi

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/commodity-dashboard/internal/charts"
	"github.com/i474232898/commodity-dashboard/internal/common"
	"github.com/i474232898/commodity-dashboard/internal/market"
	"github.com/i474232898/commodity-dashboard/internal/report"
	"github.com/i474232898/commodity-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *market.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/catalog", func(c *fiber.Ctx) error {
		sel, err := service.Selection()
		if err != nil {
			return mapError(err)
		}
		return c.JSON(sel)
	})

	v1.Get("/observations", func(c *fiber.Ctx) error {
		ds, err := service.Active()
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"dataset":      ds.Info(),
			"observations": ds.Table,
		})
	})

	v1.Get("/observations.csv", func(c *fiber.Ctx) error {
		ds, err := service.Active()
		if err != nil {
			return mapError(err)
		}
		var buf bytes.Buffer
		if err := market.WriteCSV(&buf, ds.Table); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode observations")
		}
		c.Attachment("observations.csv")
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	})

	v1.Get("/datasets", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"datasets": service.History()})
	})

	v1.Post("/datasets", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
		}
		defer f.Close()

		ds, err := service.Upload(c.UserContext(), fh.Filename, f)
		if err != nil {
			var schemaErr *market.SchemaError
			if errors.As(err, &schemaErr) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"error":   true,
					"message": schemaErr.Error(),
					"schema":  schemaErr,
				})
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(ds.Info())
	})

	v1.Post("/datasets/refresh", func(c *fiber.Ctx) error {
		ds, err := service.RefreshWithTimeout(c.UserContext())
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(ds.Info())
	})

	v1.Get("/view", func(c *fiber.Ctx) error {
		view, err := viewFromQuery(c, service)
		if err != nil {
			return err
		}
		return c.JSON(view)
	})

	v1.Get("/view/export.xlsx", func(c *fiber.Ctx) error {
		view, err := viewFromQuery(c, service)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := report.WriteWorkbook(&buf, view); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build workbook")
		}
		service.RecordReport("xlsx")
		c.Attachment("vue_filtree.xlsx")
		c.Set(fiber.HeaderContentType, report.WorkbookContentType)
		return c.Send(buf.Bytes())
	})

	v1.Get("/charts/:kind", func(c *fiber.Ctx) error {
		kind, err := charts.ParseKind(strings.TrimSuffix(c.Params("kind"), ".png"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		view, err := viewFromQuery(c, service)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := charts.WritePNG(&buf, kind, view); err != nil {
			return mapError(err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	})

	v1.Get("/briefing", func(c *fiber.Ctx) error {
		product := c.Query("product")
		if product == "" {
			sel, err := service.Selection()
			if err != nil {
				return mapError(err)
			}
			product = firstOrEmpty(sel.Products)
		}
		return c.JSON(market.NewBriefing(product))
	})

	v1.Post("/reports", func(c *fiber.Ctx) error {
		var req reportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid report request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		regions, err := resolveRegions(service, req.Regions)
		if err != nil {
			return mapError(err)
		}
		view, err := service.View(req.Product, regions)
		if err != nil {
			return mapError(err)
		}

		format := req.format()
		note := report.NewNote(view, req.Commentary, view.GeneratedAt)
		var buf bytes.Buffer
		if err := report.Write(&buf, format, note); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
		}
		service.RecordReport(string(format))

		c.Attachment(report.Filename(format))
		c.Set(fiber.HeaderContentType, report.ContentType(format))
		return c.Send(buf.Bytes())
	})
}

// mapError converts service errors into HTTP errors.
func mapError(err error) error {
	var schemaErr *market.SchemaError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no dataset loaded")
	case errors.Is(err, charts.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, "no data for the current selection")
	case errors.Is(err, market.ErrNoSource):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.As(err, &schemaErr):
		return fiber.NewError(fiber.StatusBadGateway, schemaErr.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to load dataset: "+err.Error())
	}
}

// viewQuery holds the product and region selection of a view request.
type viewQuery struct {
	Product string   `validate:"required,max=200"`
	Regions []string `validate:"max=200,dive,required,max=200"`
}

// viewFromQuery builds a view from ?product=&regions=. A missing product
// selects the first product of the dataset; a missing regions parameter
// selects every region, while an empty one selects none.
func viewFromQuery(c *fiber.Ctx, service *market.Service) (market.View, error) {
	var q viewQuery
	q.Product = c.Query("product")

	var regions *string
	if c.Context().QueryArgs().Has("regions") {
		r := c.Query("regions")
		regions = &r
	}

	if q.Product == "" || regions == nil {
		sel, err := service.Selection()
		if err != nil {
			return market.View{}, mapError(err)
		}
		if q.Product == "" {
			q.Product = firstOrEmpty(sel.Products)
		}
		if regions == nil {
			q.Regions = sel.Regions
		}
	}
	if regions != nil {
		q.Regions = common.SplitList(*regions)
	}

	if q.Product == "" {
		// an empty dataset has nothing to select from
		return market.View{Regions: q.Regions, Rows: []market.ViewRow{}}, nil
	}
	if err := validate.Struct(q); err != nil {
		return market.View{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view, err := service.View(q.Product, q.Regions)
	if err != nil {
		return market.View{}, mapError(err)
	}
	return view, nil
}

// reportRequest is the body of POST /reports. Regions nil means all regions.
type reportRequest struct {
	Product    string    `json:"product" validate:"required,max=200"`
	Regions    *[]string `json:"regions" validate:"omitempty,max=200,dive,required"`
	Commentary string    `json:"commentary" validate:"max=20000"`
	Format     string    `json:"format" validate:"omitempty,oneof=pdf txt"`
}

func (r reportRequest) format() report.Format {
	if r.Format == string(report.FormatText) {
		return report.FormatText
	}
	return report.FormatPDF
}

func resolveRegions(service *market.Service, regions *[]string) ([]string, error) {
	if regions != nil {
		return *regions, nil
	}
	sel, err := service.Selection()
	if err != nil {
		return nil, err
	}
	return sel.Regions, nil
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
