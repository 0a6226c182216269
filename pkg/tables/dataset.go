package tables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

// FileNames maps each table to its file name inside an output directory.
var FileNames = map[string]string{
	synth.TableVendors:        "vendors.csv",
	synth.TableMaterials:      "materials.csv",
	synth.TableBOM:            "bill_of_materials.csv",
	synth.TablePurchaseOrders: "purchase_orders.csv",
	synth.TableTradeData:      "trade_data.csv",
	synth.TableRegions:        "regions.csv",
}

// TableOrder is the order tables are written and loaded in.
var TableOrder = []string{
	synth.TableVendors,
	synth.TableMaterials,
	synth.TableBOM,
	synth.TablePurchaseOrders,
	synth.TableTradeData,
	synth.TableRegions,
}

// PathFor returns where a table lives in dir.
func PathFor(dir, table string, compress bool) string {
	p := filepath.Join(dir, FileNames[table])
	if compress {
		p += SnappySuffix
	}
	return p
}

// WriteDataset writes every table of ds into dir.
func WriteDataset(dir string, ds *synth.Dataset, opts Options) ([]FileInfo, error) {
	steps := []struct {
		table string
		write func(path string) (FileInfo, error)
	}{
		{synth.TableVendors, func(p string) (FileInfo, error) { return WriteTable(ds.Vendors, p, nil, opts) }},
		{synth.TableMaterials, func(p string) (FileInfo, error) { return WriteTable(ds.Materials, p, nil, opts) }},
		{synth.TableBOM, func(p string) (FileInfo, error) { return WriteTable(ds.BOM, p, nil, opts) }},
		{synth.TablePurchaseOrders, func(p string) (FileInfo, error) { return WriteTable(ds.PurchaseOrders, p, nil, opts) }},
		{synth.TableTradeData, func(p string) (FileInfo, error) { return WriteTable(ds.TradeFlows, p, nil, opts) }},
		{synth.TableRegions, func(p string) (FileInfo, error) { return WriteTable(ds.Regions, p, nil, opts) }},
	}

	files := make([]FileInfo, 0, len(steps))
	for _, step := range steps {
		info, err := step.write(filepath.Join(dir, FileNames[step.table]))
		if err != nil {
			return files, err
		}
		info.Table = step.table
		files = append(files, info)
	}
	return files, nil
}

// ReadDataset loads a directory written by WriteDataset. Tables that were
// skipped because they were empty load as empty slices. The seed is not
// stored in the tables; read it from the manifest.
func ReadDataset(dir string, compress bool) (*synth.Dataset, error) {
	ds := &synth.Dataset{}
	var err error

	if ds.Vendors, err = readOptional(PathFor(dir, synth.TableVendors, compress), ReadVendors); err != nil {
		return nil, err
	}
	if ds.Materials, err = readOptional(PathFor(dir, synth.TableMaterials, compress), ReadMaterials); err != nil {
		return nil, err
	}
	if ds.BOM, err = readOptional(PathFor(dir, synth.TableBOM, compress), ReadBOM); err != nil {
		return nil, err
	}
	if ds.PurchaseOrders, err = readOptional(PathFor(dir, synth.TablePurchaseOrders, compress), ReadPurchaseOrders); err != nil {
		return nil, err
	}
	if ds.TradeFlows, err = readOptional(PathFor(dir, synth.TableTradeData, compress), ReadTradeFlows); err != nil {
		return nil, err
	}
	if ds.Regions, err = readOptional(PathFor(dir, synth.TableRegions, compress), ReadRegions); err != nil {
		return nil, err
	}
	return ds, nil
}

func readOptional[T any](path string, read func(string) ([]T, error)) ([]T, error) {
	out, err := read(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return out, nil
}
