// Package packaging contiene los servicios de dominio puros sobre el árbol de empaques de un producto:
// construcción de la jerarquía, conversión entre niveles y optimización de picking.
package packaging

import (
	"sort"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// Node nodo del árbol de empaques.
type Node struct {
	Packaging *entity.PackagingType
	Children  []*Node
}

// Hierarchy árbol de empaques activos de un producto, con índice por ID.
type Hierarchy struct {
	ProductID string
	Roots     []*Node
	index     map[string]*Node
}

// BuildHierarchy arma el árbol a partir de la lista plana de tipos de empaque.
// Primera pasada: inserta todos los nodos activos en el índice. Segunda pasada: engancha cada nodo a su padre.
// Un nodo cuyo padre no existe, está inactivo o no tiene un nivel menor queda como raíz;
// esto último impide ciclos aunque los datos vengan corruptos.
func BuildHierarchy(productID string, types []*entity.PackagingType) *Hierarchy {
	active := make([]*entity.PackagingType, 0, len(types))
	for _, t := range types {
		if t != nil && t.IsActive && t.ProductID == productID {
			active = append(active, t)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Level != active[j].Level {
			return active[i].Level < active[j].Level
		}
		return active[i].ID < active[j].ID
	})

	h := &Hierarchy{ProductID: productID, index: make(map[string]*Node, len(active))}
	for _, t := range active {
		h.index[t.ID] = &Node{Packaging: t}
	}
	for _, t := range active {
		node := h.index[t.ID]
		if t.ParentPackagingID != nil {
			if parent, ok := h.index[*t.ParentPackagingID]; ok && parent.Packaging.Level < t.Level {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		h.Roots = append(h.Roots, node)
	}
	return h
}

// Find devuelve el nodo de un tipo de empaque o nil.
func (h *Hierarchy) Find(packagingID string) *Node {
	return h.index[packagingID]
}

// Len número de tipos de empaque activos en el árbol.
func (h *Hierarchy) Len() int { return len(h.index) }

// BaseUnit devuelve el tipo de empaque marcado como unidad base, o nil si no existe.
func (h *Hierarchy) BaseUnit() *entity.PackagingType {
	for _, n := range h.index {
		if n.Packaging.IsBaseUnit {
			return n.Packaging
		}
	}
	return nil
}

// Flatten lista los tipos de empaque en orden de nivel ascendente (y por ID en empates).
func (h *Hierarchy) Flatten() []*entity.PackagingType {
	out := make([]*entity.PackagingType, 0, len(h.index))
	for _, n := range h.index {
		out = append(out, n.Packaging)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].ID < out[j].ID
	})
	return out
}
