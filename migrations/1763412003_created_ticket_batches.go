package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("ticket_batches")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "event",
				Required:      true,
				CollectionId:  events.Id,
				CascadeDelete: true,
				MaxSelect:     1,
			},
			&core.NumberField{
				Name:     "available_tickets",
				Required: false,
				OnlyInt:  true,
				Min:      types.Pointer(0.0),
			},
			// Decimal string, e.g. "80.00"; money never touches floats.
			&core.TextField{
				Name:     "price",
				Required: true,
			},
			&core.DateField{
				Name: "sale_start",
			},
			&core.DateField{
				Name: "sale_end",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		collection.AddIndex("idx_ticket_batches_event", false, "event", "")
		collection.AddIndex("idx_ticket_batches_sale_window", false, "sale_start, sale_end", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("ticket_batches")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
