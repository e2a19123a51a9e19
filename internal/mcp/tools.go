package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchIncidentsTool defines the search_incidents MCP tool.
var searchIncidentsTool = mcp.NewTool("search_incidents",
	mcp.WithDescription("Search historical environmental incidents by similarity. Returns the closest past cases with outcomes, resolution times, and costs."),
	mcp.WithString("incident_type",
		mcp.Required(),
		mcp.Description("Incident category, e.g. WATER_CONTAMINATION"),
	),
	mcp.WithString("facility_id",
		mcp.Description("Facility identifier, e.g. Atlanta_WTP"),
	),
	mcp.WithString("description",
		mcp.Description("Free-text incident context, e.g. \"heavy rain, elevated ecoli\""),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of similar cases to return (default 5)"),
	),
)

// incidentPatternsTool defines the get_incident_patterns MCP tool.
var incidentPatternsTool = mcp.NewTool("get_incident_patterns",
	mcp.WithDescription("Get aggregate pattern statistics (success rate, average resolution time, average cost) for incidents similar to the given one."),
	mcp.WithString("incident_type",
		mcp.Required(),
		mcp.Description("Incident category to analyze"),
	),
	mcp.WithString("facility_id",
		mcp.Description("Facility identifier to narrow the comparison"),
	),
)

// memoryStatsTool defines the memory_stats MCP tool.
var memoryStatsTool = mcp.NewTool("memory_stats",
	mcp.WithDescription("Get the state of the incident memory: how many cases are stored and which embedding model indexes them."),
)
