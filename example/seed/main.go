package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/siherrmann/tripgraph/core/embedding"
	"github.com/siherrmann/tripgraph/database"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

type seedEntity struct {
	name        string
	entityType  string
	city        string
	description string
}

type seedRelation struct {
	from     string
	relation string
	to       string
}

var sampleEntities = []seedEntity{
	{"Hanoi", "City", "", "Capital of Vietnam, known for its rich history and French colonial architecture"},
	{"Ho Chi Minh City", "City", "", "Largest city in Vietnam, formerly known as Saigon"},
	{"Ha Long Bay", "Attraction", "", "UNESCO World Heritage site with thousands of limestone karsts"},
	{"Hoi An", "City", "", "Ancient town with well-preserved architecture and lanterns"},
	{"Pho", "Food", "Hanoi", "Traditional Vietnamese noodle soup"},
	{"Banh Mi", "Food", "Ho Chi Minh City", "Vietnamese sandwich with French baguette"},
	{"Vietnam Airlines", "Airline", "", "National flag carrier of Vietnam"},
	{"Vinpearl", "Resort", "", "Luxury resort chain in Vietnam"},
}

var sampleRelations = []seedRelation{
	{"ha_long_bay", "LOCATED_IN", "hanoi"},
	{"pho", "POPULAR_IN", "hanoi"},
	{"banh_mi", "POPULAR_IN", "ho_chi_minh_city"},
	{"vietnam_airlines", "SERVES", "hanoi"},
	{"vietnam_airlines", "SERVES", "ho_chi_minh_city"},
	{"vinpearl", "HAS_RESORT_IN", "ha_long_bay"},
}

// Seeds the vector index and graph store with a small Vietnam travel
// dataset, embedding each entity description on the way in.
func main() {
	ctx := context.Background()

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("Failed to load database configuration: %v", err)
	}

	serviceConfig, err := model.NewServiceConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load service configuration: %v", err)
	}
	serviceConfig.ApplyDefaults()

	logger := slog.New(helper.NewPrettyHandler(os.Stdout, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelInfo},
	}))
	db := helper.NewDatabase("seed", dbConfig, logger)
	defer db.Instance.Close()

	vector, err := database.NewVectorDBHandler(db, serviceConfig.EmbeddingDim, false)
	if err != nil {
		log.Fatalf("Failed to create vector handler: %v", err)
	}

	embedder, err := embedding.NewEmbedder(serviceConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	defer embedder.Close()

	var graph *database.GraphDBHandler
	if serviceConfig.GraphEnabled() {
		graph, err = database.NewGraphDBHandler(ctx, serviceConfig.GraphURI, serviceConfig.GraphUsername, serviceConfig.GraphPassword, serviceConfig.GraphDatabase, logger)
		if err != nil {
			log.Fatalf("Failed to create graph handler: %v", err)
		}
		defer graph.Close(ctx)
	} else {
		log.Println("No graph store configured, seeding the vector index only")
	}

	for _, sample := range sampleEntities {
		entity := &model.TravelEntity{
			ID:          entityID(sample.name),
			Name:        sample.name,
			Type:        sample.entityType,
			Description: sample.description,
			Metadata: model.Metadata{
				"name": sample.name,
				"type": sample.entityType,
			},
		}
		if sample.city != "" {
			entity.Metadata["city"] = sample.city
		}

		entity.Embedding, err = embedder.Embed(ctx, sample.name+": "+sample.description)
		if err != nil {
			log.Fatalf("Failed to embed %q: %v", sample.name, err)
		}

		if err := vector.UpsertEntity(entity); err != nil {
			log.Fatalf("Failed to upsert %q into the vector index: %v", sample.name, err)
		}
		if graph != nil {
			if err := graph.UpsertEntityNode(ctx, entity); err != nil {
				log.Fatalf("Failed to upsert %q into the graph: %v", sample.name, err)
			}
		}
		log.Printf("Seeded %s", entity.ID)
	}

	if graph != nil {
		for _, relation := range sampleRelations {
			if err := graph.UpsertRelation(ctx, relation.from, relation.relation, relation.to); err != nil {
				log.Fatalf("Failed to create relation %s-[%s]->%s: %v", relation.from, relation.relation, relation.to, err)
			}
		}
		log.Printf("Seeded %d relations", len(sampleRelations))
	}

	count, err := vector.CountEntities()
	if err != nil {
		log.Fatalf("Failed to count entities: %v", err)
	}
	log.Printf("Done, vector index holds %d entities", count)
}

func entityID(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}
