// Package fixtures holds literal OSM XML 0.6 documents used across the
// navigation core's tests, so every package exercises the ingester
// against the same small, hand-built extracts instead of each writing its
// own ad hoc graph.
package fixtures

// TwoNodeResidential is a single two-way residential street: node 1 to
// node 2, no oneway tag, so the ingester must produce a forward and a
// reverse edge.
const TwoNodeResidential = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6">
  <node id="1" lat="10.0000" lon="20.0000"/>
  <node id="2" lat="10.0000" lon="20.0010"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Fixture Residential Street"/>
  </way>
</osm>
`

// TwoNodeMotorway is the same two-node shape as TwoNodeResidential but
// tagged highway=motorway, which the ingester must treat as forced
// oneway regardless of any explicit oneway tag.
const TwoNodeMotorway = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6">
  <node id="1" lat="10.0000" lon="20.0000"/>
  <node id="2" lat="10.0000" lon="20.0010"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="motorway"/>
    <tag k="name" v="Fixture Motorway"/>
  </way>
</osm>
`

// Grid3x3 is a 3x3 lattice of nodes spaced 0.001 degrees apart (ids 1-9,
// row-major from the southwest corner) connected by two-way residential
// street segments along every horizontal and vertical adjacency. Node 1
// is the southwest corner, node 9 is the northeast corner.
const Grid3x3 = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6">
  <node id="1" lat="10.0000" lon="20.0000"/>
  <node id="2" lat="10.0000" lon="20.0010"/>
  <node id="3" lat="10.0000" lon="20.0020"/>
  <node id="4" lat="10.0010" lon="20.0000"/>
  <node id="5" lat="10.0010" lon="20.0010"/>
  <node id="6" lat="10.0010" lon="20.0020"/>
  <node id="7" lat="10.0020" lon="20.0000"/>
  <node id="8" lat="10.0020" lon="20.0010"/>
  <node id="9" lat="10.0020" lon="20.0020"/>
  <way id="101"><nd ref="1"/><nd ref="2"/><tag k="highway" v="residential"/><tag k="name" v="Row 0"/></way>
  <way id="102"><nd ref="2"/><nd ref="3"/><tag k="highway" v="residential"/><tag k="name" v="Row 0"/></way>
  <way id="103"><nd ref="4"/><nd ref="5"/><tag k="highway" v="residential"/><tag k="name" v="Row 1"/></way>
  <way id="104"><nd ref="5"/><nd ref="6"/><tag k="highway" v="residential"/><tag k="name" v="Row 1"/></way>
  <way id="105"><nd ref="7"/><nd ref="8"/><tag k="highway" v="residential"/><tag k="name" v="Row 2"/></way>
  <way id="106"><nd ref="8"/><nd ref="9"/><tag k="highway" v="residential"/><tag k="name" v="Row 2"/></way>
  <way id="107"><nd ref="1"/><nd ref="4"/><tag k="highway" v="residential"/><tag k="name" v="Col 0"/></way>
  <way id="108"><nd ref="4"/><nd ref="7"/><tag k="highway" v="residential"/><tag k="name" v="Col 0"/></way>
  <way id="109"><nd ref="2"/><nd ref="5"/><tag k="highway" v="residential"/><tag k="name" v="Col 1"/></way>
  <way id="110"><nd ref="5"/><nd ref="8"/><tag k="highway" v="residential"/><tag k="name" v="Col 1"/></way>
  <way id="111"><nd ref="3"/><nd ref="6"/><tag k="highway" v="residential"/><tag k="name" v="Col 2"/></way>
  <way id="112"><nd ref="6"/><nd ref="9"/><tag k="highway" v="residential"/><tag k="name" v="Col 2"/></way>
</osm>
`

// MalformedXML is not well-formed XML; the ingester must reject it.
const MalformedXML = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6">
  <node id="1" lat="10.0" lon="20.0"/>
`

// NoHighwaysXML contains only a footway, so the ingester should accept
// zero ways and report failure.
const NoHighwaysXML = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6">
  <node id="1" lat="10.0000" lon="20.0000"/>
  <node id="2" lat="10.0000" lon="20.0010"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="footway"/>
  </way>
</osm>
`
