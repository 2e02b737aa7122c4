// Package model defines the records exchanged between the embedprobe stages.
//
// ProbeReport is the outcome of probing one URL. ChannelList and ReportFile
// are the JSON documents written at each stage boundary: the catalog and the
// accepted list share the ChannelList shape, the probe results use ReportFile.
//
// Optional report fields are pointers so that an absent value serializes as
// JSON null rather than being omitted.
package model
