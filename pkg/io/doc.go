// Package io provides JSON import and export for topology descriptions.
//
// # Overview
//
// A diagram file describes the same structure the Go builder produces:
// a title, top-level nodes, nested clusters and edges. It lets diagrams be
// kept next to the infrastructure they document and rendered with
// `topodraw render` without writing Go.
//
// # JSON Format
//
//	{
//	  "title": "Web Service",
//	  "direction": "TB",
//	  "nodes": [{"label": "Users", "category": "Users"}],
//	  "clusters": [
//	    {
//	      "name": "VPC",
//	      "nodes": [{"label": "Load Balancer", "category": "ELB", "ref": "lb"}],
//	      "clusters": [
//	        {"name": "Private Subnet", "nodes": [{"label": "Web", "category": "EC2"}]}
//	      ]
//	    }
//	  ],
//	  "edges": [
//	    {"from": "Users", "to": "lb"},
//	    {"from": "lb", "to": ["Web"], "label": "https"}
//	  ]
//	}
//
// Diagram fields other than "title" are optional: "filename", "direction",
// "format", "show" and "meta" map onto the topology options of the same
// name.
//
// # Node Fields
//
// Required:
//   - label: Display label
//
// Optional:
//   - id: Identifier, unique within the enclosing cluster (defaults to label)
//   - category: Catalog tag such as "EC2" or "aws.compute.EC2"
//   - ref: File-wide handle used by edges; must be unique
//   - meta: Freeform object
//
// # Edge Endpoints
//
// "from" and "to" each take a string or an array of strings; an array fans
// out exactly like [topology.Diagram.Connect]. Every string is resolved
// first as a ref, then as a node id. An id used in more than one cluster
// is ambiguous and must be referenced through a ref.
//
// # Round Trip
//
// [WriteJSON] emits ids only where they differ from the label, and refs
// (the node's render name) only for nodes whose id is ambiguous, so
// re-importing an export rebuilds an identical diagram.
package io
